/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. Recoverer:     Panic recovery (500 instead of crash)
  3. RequestLogger: Structured access log (see middleware.go)
  4. CORS:          Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/dashboard        Overview aggregates
  /api/distributors/*   Per-distributor detail and pivots
  /api/returns/*        Approve/reject workflow
  /api/insights/*       Chat assistant
  /api/reset            Dataset regeneration (demo only)

SECURITY NOTE:
  No authentication middleware. This is a single-session demo service;
  all endpoints are public.

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

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard)

		// Distributor routes
		r.Route("/distributors", func(r chi.Router) {
			r.Get("/", h.ListDistributors)
			r.Get("/{id}", h.GetDistributor)
			r.Get("/{id}/transactions", h.DistributorTransactions)
			r.Get("/{id}/batches", h.DistributorBatches)
			r.Get("/{id}/products", h.DistributorProducts)
		})

		// Review routes
		r.Route("/returns", func(r chi.Router) {
			r.Post("/{id}/approve", h.ApproveReturn)
			r.Post("/{id}/reject", h.RejectReturn)
		})

		// Insight routes
		r.Route("/insights", func(r chi.Router) {
			r.Post("/chat", h.Chat)
		})

		// Demo reset
		r.Post("/reset", h.Reset)
	})

	return r
}
