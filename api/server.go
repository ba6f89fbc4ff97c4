/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for admin frontends

ROUTE GROUPS:
  /api/rate-tables/*    Statutory table management
  /api/runs/*           Batch run execution and history
  /api/entries/*        Entry lifecycle (approve, pay, cancel)
  /api/periods/*        Period entries and summaries
  /api/preview          Stateless what-if calculation

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Rate table routes
		r.Route("/rate-tables", func(r chi.Router) {
			r.Get("/", h.ListRateTables)
			r.Post("/", h.CreateRateTable)
			r.Get("/{id}", h.GetRateTable)
		})

		// Run routes
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", h.ListRuns)
			r.Post("/", h.CreateRun)
			r.Get("/{id}", h.GetRun)
		})

		// Entry lifecycle routes
		r.Route("/entries", func(r chi.Router) {
			r.Get("/{id}", h.GetEntry)
			r.Post("/{id}/approve", h.ApproveEntry)
			r.Post("/{id}/pay", h.PayEntry)
			r.Post("/{id}/cancel", h.CancelEntry)
		})

		// Period routes
		r.Route("/periods/{year}/{month}", func(r chi.Router) {
			r.Get("/entries", h.ListPeriodEntries)
			r.Get("/summary", h.GetPeriodSummary)
		})

		// Preview route
		r.Post("/preview", h.Preview)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Payroll Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Payroll Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/rate-tables">/api/rate-tables</a> - List statutory rate tables</li>
<li><a href="/api/runs">/api/runs</a> - List payroll runs</li>
</ul>
</body>
</html>`))
	})

	return r
}
