package main

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"weddinglk-payments/internal/auth"
	"weddinglk-payments/internal/config"
	"weddinglk-payments/internal/db"
	"weddinglk-payments/internal/gateway"
	"weddinglk-payments/internal/logger"
	"weddinglk-payments/internal/middleware"
	"weddinglk-payments/internal/payment"
	"weddinglk-payments/internal/server"
	"weddinglk-payments/internal/webhook"

	"go.uber.org/zap"
)

// Seams for tests.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	paymentRepo := payment.NewRepository(database)
	gate := gateway.New(cfg, &http.Client{Timeout: 30 * time.Second})
	tokens := auth.NewTokenIssuer(cfg.TokenSecret, 30*time.Minute)
	paymentSvc := payment.NewService(paymentRepo, gate, tokens)

	webhooks := map[string]*webhook.Handler{
		"payhere": webhook.NewHandler(webhook.NewPayHereVerifier(cfg.PayHere), paymentRepo, paymentSvc),
		"ezcash":  webhook.NewHandler(webhook.NewWalletVerifier("ezcash", cfg.EzCash), paymentRepo, paymentSvc),
		"mcash":   webhook.NewHandler(webhook.NewWalletVerifier("mcash", cfg.MCash), paymentRepo, paymentSvc),
	}

	return server.NewRouter(server.Deps{
		Handler:         server.NewHandler(paymentSvc),
		Webhooks:        webhooks,
		RateLimiter:     middleware.NewRateLimiter(),
		InternalKeyHash: cfg.InternalKeyHash,
		AllowedOrigins:  allowedOrigins(cfg),
	})
}

func allowedOrigins(cfg *config.Config) []string {
	if strings.EqualFold(cfg.AppEnv, "production") {
		return []string{"https://weddinglk.com", "https://www.weddinglk.com"}
	}
	return []string{"*"}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	router := newServer(cfg, database)

	logger.L().Info("payments server listening", zap.String("port", cfg.AppPort))
	return startServerFunc(":"+cfg.AppPort, router)
}

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}
