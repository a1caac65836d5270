/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the form frontend

ROUTE GROUPS:
  /api/calculations/*   Compute and export
  /api/rates/*          Base-rate reference data
  /healthz              Liveness

SECURITY NOTE:
  No authentication middleware. PUT /api/rates should sit behind a proxy
  that restricts it to operators.

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
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/calculations", func(r chi.Router) {
			r.Post("/", h.Calculate)
			r.Post("/csv", h.ExportCSV)
			r.Post("/pdf", h.ExportPDF)
		})

		r.Route("/rates", func(r chi.Router) {
			r.Get("/", h.GetRates)
			r.Put("/", h.PutRates)
			r.Get("/refreshes", h.ListRefreshes)
			r.Get("/status", h.GetScheduleStatus)
		})
	})

	return r
}
