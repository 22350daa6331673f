package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hewad/sarrafbook/internal/adapter/http/handler"
	"github.com/hewad/sarrafbook/internal/adapter/http/middleware"
	"github.com/hewad/sarrafbook/internal/infrastructure/metrics"
	"github.com/hewad/sarrafbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntityHandler      *handler.EntityHandler
	TransferHandler    *handler.TransferHandler
	TransactionHandler *handler.TransactionHandler
	RateHandler        *handler.RateHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	RateLimiter        *middleware.RateLimiter
	Metrics            *metrics.Metrics
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Parties
		r.Route("/entities", func(r chi.Router) {
			r.Post("/", cfg.EntityHandler.Create)
			r.Get("/", cfg.EntityHandler.List)
			r.Get("/{id}", cfg.EntityHandler.Get)
			r.Get("/{id}/balances", cfg.EntityHandler.GetBalances)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.Post("/exchange", cfg.TransferHandler.CreateExchange)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Delete("/{id}", cfg.TransactionHandler.Reverse)
		})

		// Currencies and rates
		r.Route("/currencies", func(r chi.Router) {
			r.Post("/", cfg.RateHandler.CreateCurrency)
			r.Get("/", cfg.RateHandler.ListCurrencies)
			r.Put("/{code}/rate", cfg.RateHandler.UpdateRate)
		})
		r.Route("/rates/direct", func(r chi.Router) {
			r.Get("/required", cfg.RateHandler.DirectRateRequired)
			r.Put("/", cfg.RateHandler.UpsertDirectRate)
		})
	})

	return r
}
