package api

import (
	"encoding/json"
	"net/http"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/poll"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/platform/apperr"
)

type startPollRequest struct {
	Candidates      []string `json:"candidates"`
	DurationSeconds int64    `json:"duration_seconds"`
}

type statusResponse struct {
	Status poll.Status `json:"status"`
}

type tallyResponse struct {
	Candidate string `json:"candidate"`
	Votes     int64  `json:"votes"`
}

type winnerResponse struct {
	Winner string `json:"winner"`
}

type ownerResponse struct {
	Owner string `json:"owner"`
}

// @Summary     Current poll
// @Tags        poll
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  poll.Poll
// @Failure     401  {object}  map[string]string  "unauthorized"
// @Router      /api/v1/poll [get]
func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pollSvc.Snapshot(r.Context()))
}

// @Summary     Poll status
// @Tags        poll
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  statusResponse
// @Failure     401  {object}  map[string]string  "unauthorized"
// @Router      /api/v1/poll/status [get]
func (h *Handler) handlePollStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: h.pollSvc.Status(r.Context())})
}

// @Summary     Votes for one candidate
// @Tags        poll
// @Security    BearerAuth
// @Produce     json
// @Param       candidate  query     string  true  "Candidate name"
// @Success     200        {object}  tallyResponse
// @Failure     400        {object}  map[string]string  "unknown candidate"
// @Failure     401        {object}  map[string]string  "unauthorized"
// @Failure     409        {object}  map[string]string  "poll not started"
// @Router      /api/v1/poll/tally [get]
func (h *Handler) handleTally(w http.ResponseWriter, r *http.Request) {
	candidate := r.URL.Query().Get("candidate")
	votes, err := h.pollSvc.Tally(r.Context(), candidate)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tallyResponse{Candidate: candidate, Votes: votes})
}

// @Summary     Winner of the ended poll
// @Tags        poll
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  winnerResponse
// @Failure     401  {object}  map[string]string  "unauthorized"
// @Failure     409  {object}  map[string]string  "poll not ended"
// @Router      /api/v1/poll/winner [get]
func (h *Handler) handleWinner(w http.ResponseWriter, r *http.Request) {
	winner, err := h.pollSvc.Winner(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, winnerResponse{Winner: winner})
}

// @Summary     Caller's ballot in the current poll
// @Tags        poll
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  poll.Ballot
// @Failure     401  {object}  map[string]string  "unauthorized"
// @Router      /api/v1/poll/ballot [get]
func (h *Handler) handleBallot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pollSvc.Ballot(r.Context(), participantFromCtx(r)))
}

// @Summary     Poll owner
// @Tags        poll
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  ownerResponse
// @Failure     401  {object}  map[string]string  "unauthorized"
// @Router      /api/v1/poll/owner [get]
func (h *Handler) handleOwner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ownerResponse{Owner: h.pollSvc.Owner()})
}

// @Summary     Start a poll
// @Description Owner only. Replaces an ended poll with a fresh one.
// @Tags        poll
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      startPollRequest  true  "Candidates and voting window"
// @Success     201      {object}  poll.Poll
// @Failure     400      {object}  map[string]string  "invalid candidates or duration"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     403      {object}  map[string]string  "not the owner"
// @Failure     409      {object}  map[string]string  "poll already active"
// @Router      /api/v1/poll/start [post]
func (h *Handler) handleStartPoll(w http.ResponseWriter, r *http.Request) {
	var req startPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pollError(w, "start", apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	p, err := h.pollSvc.Start(r.Context(), participantFromCtx(r), req.Candidates, req.DurationSeconds)
	if err != nil {
		pollError(w, "start", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// @Summary     End the poll
// @Description Owner only. Allowed once the voting window has elapsed.
// @Tags        poll
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  poll.Poll
// @Failure     401  {object}  map[string]string  "unauthorized"
// @Failure     403  {object}  map[string]string  "not the owner"
// @Failure     409  {object}  map[string]string  "not active, already ended or window still open"
// @Router      /api/v1/poll/end [post]
func (h *Handler) handleEndPoll(w http.ResponseWriter, r *http.Request) {
	p, err := h.pollSvc.End(r.Context(), participantFromCtx(r))
	if err != nil {
		pollError(w, "end", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
