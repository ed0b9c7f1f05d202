/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. CORS:       Cross-origin requests for tooling

ROUTE GROUPS:
  /api/quotes/*   Quote computation and audit retrieval
  /api/admin/*    Configuration reload
  /api/healthz    Liveness

SECURITY NOTE:
  No authentication middleware. The reload endpoint mutates serving
  state and must not be exposed beyond a trusted network as-is.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", h.CreateQuote)
			r.Get("/", h.ListQuotes)
			r.Get("/{id}", h.GetQuote)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/reload", h.ReloadConfig)
		})

		r.Get("/healthz", h.Healthz)
	})

	return r
}
