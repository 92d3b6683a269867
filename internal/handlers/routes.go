package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/auth"
	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/metrics"
)

// Router returns a configured chi router with all routes
func Router(api *APIHandlers, hub *Hub, health *Health, authProvider auth.Provider) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Probes and metrics
	r.Get("/healthz", health.Liveness)
	r.Get("/readyz", health.Readiness)
	r.Get("/api/health", health.Health)
	r.Handle("/metrics", metrics.Handler())

	// Auth routes (public)
	r.Get("/auth/login", authProvider.LoginHandler)
	r.Get("/auth/callback", authProvider.CallbackHandler)
	r.Get("/auth/logout", authProvider.LogoutHandler)

	// Streams stay open, so they sit outside the request timeout
	r.Get("/api/events", api.EventsSSE)
	r.Get("/ws", hub.ServeWs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Post("/api/drafts", api.InitializeDraft)
		r.Get("/api/drafts/{id}", api.GetDraftSummary)
		r.Get("/api/leagues/{id}/composition", api.GetLeagueComposition)

		// Commissioner actions
		r.Group(func(r chi.Router) {
			r.Use(authProvider.Middleware)
			r.Use(auth.RequireCommissioner)
			r.Post("/api/drafts/{id}/start", api.StartDraft)
			r.Post("/api/drafts/{id}/pause", api.PauseDraft)
			r.Post("/api/drafts/{id}/resume", api.ResumeDraft)
			r.Post("/api/leagues/{id}/regenerate", api.RegenerateLeague)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "route not found", Code: "NOT_FOUND"})
	})
	return r
}
