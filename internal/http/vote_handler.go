package api

import (
	"encoding/json"
	"net/http"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/platform/apperr"
)

type voteRequest struct {
	Candidate string `json:"candidate"`
}

// @Summary     Cast a ballot
// @Tags        votes
// @Security    BearerAuth
// @Accept      json
// @Param       request  body      voteRequest  true  "Candidate"
// @Success     204
// @Failure     400      {object}  map[string]string  "invalid body or unknown candidate"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     409      {object}  map[string]string  "poll not active or already voted"
// @Failure     429      {object}  map[string]string  "rate limited"
// @Router      /api/v1/poll/vote [post]
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pollError(w, "vote", apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if err := h.pollSvc.Vote(r.Context(), participantFromCtx(r), req.Candidate); err != nil {
		pollError(w, "vote", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Change an existing ballot
// @Tags        votes
// @Security    BearerAuth
// @Accept      json
// @Param       request  body      voteRequest  true  "Candidate"
// @Success     204
// @Failure     400      {object}  map[string]string  "invalid body or unknown candidate"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     409      {object}  map[string]string  "poll not active or no ballot yet"
// @Failure     429      {object}  map[string]string  "rate limited"
// @Router      /api/v1/poll/revote [post]
func (h *Handler) handleRevote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pollError(w, "revote", apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if err := h.pollSvc.Revote(r.Context(), participantFromCtx(r), req.Candidate); err != nil {
		pollError(w, "revote", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
