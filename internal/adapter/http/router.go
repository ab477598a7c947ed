package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/autotransfer/internal/adapter/http/handler"
	"github.com/iho/autotransfer/internal/adapter/http/middleware"
	"github.com/iho/autotransfer/internal/infrastructure/metrics"
	"github.com/iho/autotransfer/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler      *handler.AccountHandler
	TransferHandler     *handler.TransferHandler
	AutoTransferHandler *handler.AutoTransferHandler
	NotificationHandler *handler.NotificationHandler
	LedgerHandler       *handler.LedgerHandler
	BatchHandler        *handler.BatchHandler
	HealthHandler       *handler.HealthHandler

	// Authenticate resolves the caller. Nil trusts the X-Member-ID header.
	Authenticate func(http.Handler) http.Handler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	authenticate := cfg.Authenticate
	if authenticate == nil {
		authenticate = middleware.HeaderIdentity
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)

		// Idempotency middleware for mutating requests, keyed per member
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.ListChecking)
			r.Get("/lookup", cfg.AccountHandler.Lookup)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/transactions", cfg.AccountHandler.Transactions)
		})

		// Transfers
		r.Post("/transfers", cfg.TransferHandler.Create)

		// Auto-transfers
		r.Route("/auto-transfers", func(r chi.Router) {
			r.Post("/", cfg.AutoTransferHandler.Create)
			r.Get("/", cfg.AutoTransferHandler.List)
			r.Get("/{id}", cfg.AutoTransferHandler.Get)
			r.Put("/{id}", cfg.AutoTransferHandler.Update)
			r.Post("/{id}/toggle", cfg.AutoTransferHandler.Toggle)
			r.Delete("/{id}", cfg.AutoTransferHandler.Delete)
		})

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Get("/unread-count", cfg.NotificationHandler.UnreadCount)
			r.Get("/replay", cfg.NotificationHandler.Replay)
			r.Patch("/{id}/read", cfg.NotificationHandler.MarkRead)
			r.Delete("/{id}", cfg.NotificationHandler.Delete)
		})

		// Operator routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/batch/due", cfg.BatchHandler.RunDue)
			r.Post("/batch/retry", cfg.BatchHandler.RunRetry)
			r.Get("/ledger/verify", cfg.LedgerHandler.VerifyAll)
			r.Get("/ledger/verify/{id}", cfg.LedgerHandler.VerifyAccount)
		})
	})

	return r
}
