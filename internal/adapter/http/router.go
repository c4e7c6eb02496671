package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/kasa/internal/adapter/http/handler"
	"github.com/iho/kasa/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SessionHandler   *handler.SessionHandler
	FinanceHandler   *handler.FinanceHandler
	DebtHandler      *handler.DebtHandler
	BudgetHandler    *handler.BudgetHandler
	HealthHandler    *handler.HealthHandler
	MetricsHandler   http.Handler
	IdempotencyStore middleware.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Timer
		r.Route("/timer", func(r chi.Router) {
			r.Get("/", cfg.SessionHandler.Status)
			r.Post("/start", cfg.SessionHandler.Start)
			r.Post("/stop", cfg.SessionHandler.Stop)
		})

		// Sessions
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", cfg.SessionHandler.Create)
			r.Get("/", cfg.SessionHandler.List)
			r.Get("/summary", cfg.SessionHandler.Summary)
			r.Get("/{id}", cfg.SessionHandler.Get)
			r.Put("/{id}", cfg.SessionHandler.Update)
			r.Delete("/{id}", cfg.SessionHandler.Delete)
		})

		// Finance records
		r.Route("/finance", func(r chi.Router) {
			r.Post("/", cfg.FinanceHandler.Create)
			r.Get("/", cfg.FinanceHandler.List)
			r.Get("/summary", cfg.FinanceHandler.Summary)
			r.Get("/{id}", cfg.FinanceHandler.Get)
			r.Put("/{id}", cfg.FinanceHandler.Update)
			r.Delete("/{id}", cfg.FinanceHandler.Delete)
		})

		// Debts
		r.Route("/debts", func(r chi.Router) {
			r.Post("/", cfg.DebtHandler.Create)
			r.Get("/", cfg.DebtHandler.List)
			r.Get("/outstanding", cfg.DebtHandler.Outstanding)
			r.Get("/{id}", cfg.DebtHandler.Get)
			r.Delete("/{id}", cfg.DebtHandler.Delete)
			r.Post("/{id}/payments", cfg.DebtHandler.AddPayment)
			r.Delete("/{id}/payments/{paymentID}", cfg.DebtHandler.DeletePayment)
		})

		// Shared budget
		r.Route("/budget", func(r chi.Router) {
			r.Get("/", cfg.BudgetHandler.Get)
			r.Post("/settle", cfg.BudgetHandler.Settle)
			r.Post("/rent", cfg.BudgetHandler.Rent)
		})
	})

	return r
}
