package api

import (
	"errors"
	"net/http"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/participant"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/poll"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/metrics"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

// pollError reports a rejected poll operation and counts it.
func pollError(w http.ResponseWriter, op string, err error) {
	appErr := mapError(err)
	metrics.IncRejection(op, appErr.Code)
	errorResponse(w, appErr)
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var pollErr *poll.Error
	if errors.As(err, &pollErr) {
		return apperr.New(pollErrorStatus(pollErr), pollErr.Code, pollErr.Msg, err)
	}

	switch {
	case errors.Is(err, participant.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid_credentials", "invalid credentials", err)
	case errors.Is(err, participant.ErrHandleReserved):
		return apperr.Forbidden("handle_reserved", "handle is reserved", err)
	case errors.Is(err, participant.ErrHandleTaken):
		return apperr.Conflict("handle_taken", "handle already taken", err)
	case errors.Is(err, participant.ErrInvalidHandle):
		return apperr.BadRequest("invalid_handle", err.Error(), err)
	case errors.Is(err, participant.ErrPasswordRequired):
		return apperr.BadRequest("invalid_input", "password required", err)
	case errors.Is(err, participant.ErrNotFound):
		return apperr.NotFound("participant_not_found", "participant not found", err)
	default:
		return apperr.FromError(err)
	}
}

func pollErrorStatus(err *poll.Error) int {
	switch {
	case errors.Is(err, poll.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, poll.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}
