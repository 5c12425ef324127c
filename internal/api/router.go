package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Hypermedia surface
	r.Route("/workspaces", func(r chi.Router) {
		r.Get("/", s.handleListWorkspaces)

		r.Route("/{workspaceID}", func(r chi.Router) {
			r.Get("/", s.handleGetWorkspace)
			r.Post("/focus", s.handleFocus)

			r.Route("/artifacts", func(r chi.Router) {
				r.Get("/", s.handleListArtifacts)

				r.Route("/{artifactName}", func(r chi.Router) {
					r.Get("/", s.handleGetArtifact)
					r.Put("/", s.handleUpdateArtifact)
					r.Delete("/", s.handleDeleteArtifact)
					r.Post("/ha/{domain}/{service}", s.handleServiceAction)
					r.Post("/{actionName}", s.handleSensorAction)
				})
			})
		})
	})

	// WebSub stub
	r.Post("/hub/", s.handleHub)

	// Operational surface
	r.Get("/_forwarder/status", s.handleForwarderStatus)
	r.Get("/api/v1/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
