package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/participant"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/domain/poll"
	"github.com/mohakay73/MoviePoll-SmartContract/internal/platform/apperr"
	jwtpkg "github.com/mohakay73/MoviePoll-SmartContract/internal/platform/jwt"
)

// ReadinessCheck reports whether the storage backend can serve requests.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	VotesPerMinute int
	VoteBurst      int
	TokenTTL       time.Duration
	Ready          ReadinessCheck
}

type Handler struct {
	participantSvc *participant.Service
	pollSvc        *poll.Service
	jwtMgr         *jwtpkg.Manager
	tokenTTL       time.Duration
	ready          ReadinessCheck
}

func NewRouter(
	participantSvc *participant.Service,
	pollSvc *poll.Service,
	jwtMgr *jwtpkg.Manager,
	opts Options,
) http.Handler {
	h := &Handler{
		participantSvc: participantSvc,
		pollSvc:        pollSvc,
		jwtMgr:         jwtMgr,
		tokenTTL:       opts.TokenTTL,
		ready:          opts.Ready,
	}
	if h.tokenTTL <= 0 {
		h.tokenTTL = 24 * time.Hour
	}
	perMinute, burst := opts.VotesPerMinute, opts.VoteBurst
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 3
	}
	voteLimit := RateLimitVotes(rate.Every(time.Minute/time.Duration(perMinute)), burst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtMgr))

			r.Get("/poll", h.handleGetPoll)
			r.Get("/poll/status", h.handlePollStatus)
			r.Get("/poll/tally", h.handleTally)
			r.Get("/poll/winner", h.handleWinner)
			r.Get("/poll/ballot", h.handleBallot)
			r.Get("/poll/owner", h.handleOwner)

			r.Post("/poll/start", h.handleStartPoll)
			r.Post("/poll/end", h.handleEndPoll)
			r.With(voteLimit).Post("/poll/vote", h.handleVote)
			r.With(voteLimit).Post("/poll/revote", h.handleRevote)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready == nil {
		errorResponse(w, apperr.Unavailable("storage_unavailable", "storage not configured", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.ready(ctx); err != nil {
		errorResponse(w, apperr.Unavailable("storage_unavailable", "storage not ready", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
