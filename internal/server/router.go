package server

import (
	"net/http"

	"weddinglk-payments/internal/logger"
	"weddinglk-payments/internal/metrics"
	"weddinglk-payments/internal/middleware"
	"weddinglk-payments/internal/webhook"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Deps carries everything the router wires together. Built once at the
// composition root.
type Deps struct {
	Handler         *Handler
	Webhooks        map[string]*webhook.Handler // route suffix -> handler
	RateLimiter     *middleware.RateLimiter
	InternalKeyHash string
	AllowedOrigins  []string
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-Device-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", deps.Handler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/checkout", deps.Handler.Checkout)
		r.Post("/checkout/installments", deps.Handler.InstallmentCheckout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.InternalAuth(deps.InternalKeyHash))
			r.Get("/payments/{orderID}", deps.Handler.PaymentStatus)
		})
	})

	r.Route("/webhooks", func(r chi.Router) {
		for suffix, h := range deps.Webhooks {
			r.Method(http.MethodPost, "/"+suffix, h)
		}
	})

	return r
}
