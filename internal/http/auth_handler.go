package api

import (
	"encoding/json"
	"net/http"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/participant"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/platform/apperr"
)

type authRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type authResponse struct {
	Participant *participant.Participant `json:"participant"`
	Token       string                   `json:"token"`
}

// @Summary     Register a participant
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request  body      authRequest  true  "Credentials"
// @Success     201      {object}  authResponse
// @Failure     400      {object}  map[string]string  "invalid handle or password"
// @Failure     403      {object}  map[string]string  "handle reserved"
// @Failure     409      {object}  map[string]string  "handle taken"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/auth/register [post]
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	p, err := h.participantSvc.Register(r.Context(), req.Handle, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}
	h.issueToken(w, http.StatusCreated, p)
}

// @Summary     Log in
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request  body      authRequest  true  "Credentials"
// @Success     200      {object}  authResponse
// @Failure     400      {object}  map[string]string  "invalid body"
// @Failure     401      {object}  map[string]string  "invalid credentials"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/auth/login [post]
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	p, err := h.participantSvc.Login(r.Context(), req.Handle, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}
	h.issueToken(w, http.StatusOK, p)
}

func (h *Handler) issueToken(w http.ResponseWriter, status int, p *participant.Participant) {
	token, err := h.jwtMgr.Generate(p.ID, h.tokenTTL)
	if err != nil {
		errorResponse(w, apperr.Internal("token_error", "could not issue token", err))
		return
	}
	writeJSON(w, status, authResponse{Participant: p, Token: token})
}
