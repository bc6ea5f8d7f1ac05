package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/bootstrap"
	"github.com/sangkips/shopledger-api/internal/config"
	"github.com/sangkips/shopledger-api/internal/presentation/http/handler"
	"github.com/sangkips/shopledger-api/internal/presentation/http/middleware"
	"github.com/sangkips/shopledger-api/internal/presentation/http/routes"
	"github.com/sangkips/shopledger-api/pkg/logger"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env, cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	app, err := bootstrap.New(sigCtx, cfg, log)
	if err != nil {
		log.Fatal("failed to start application", zap.Error(err))
	}

	rateLimiter := middleware.NewClientRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := &routes.Handlers{
		Shop:      handler.NewShopHandler(app.Shops),
		Product:   handler.NewProductHandler(app.Inventory),
		Customer:  handler.NewCustomerHandler(app.Customers, app.Ledger),
		Ledger:    handler.NewLedgerHandler(app.Ledger),
		Activity:  handler.NewActivityHandler(app.Activity),
		Admin:     handler.NewAdminHandler(app.Store.Mirror()),
		Dashboard: handler.NewDashboardHandler(app.Dashboard),
	}

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		Log:             log,
		IdempotencyRepo: app.Idempotency,
		RateLimiter:     rateLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	bgCtx, stopBackground := context.WithCancel(sigCtx)
	var background conc.WaitGroup
	background.Go(func() { app.SweepIdempotencyKeys(bgCtx) })

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", cfg.App.Port),
			zap.String("env", cfg.App.Env),
			zap.String("db_driver", cfg.Database.Driver),
		)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case <-sigCtx.Done():
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", zap.Error(err))
		}
	}

	stopBackground()
	background.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Mirror.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	// requests are drained, so every accepted write is already queued
	if err := app.Close(shutdownCtx); err != nil {
		log.Error("failed to flush durable writes", zap.Error(err))
	}
	log.Info("server stopped")
}
