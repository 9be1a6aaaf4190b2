package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/ficmart-newsletter/internal/application/services"
	"github.com/DanielPopoola/ficmart-newsletter/internal/config"
	"github.com/DanielPopoola/ficmart-newsletter/internal/infrastructure/email"
	"github.com/DanielPopoola/ficmart-newsletter/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/ficmart-newsletter/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/ficmart-newsletter/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/ficmart-newsletter/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting newsletter service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ledger := postgres.NewIdempotencyLedger(db)
	newsletterRepo := postgres.NewNewsletterRepository(db)
	subscriberRepo := postgres.NewSubscriberRepository(db)
	queueRepo := postgres.NewDeliveryQueueRepository(db)

	emailClient := email.NewEmailClient(cfg.EmailClient)
	retryEmailClient := email.NewRetryEmailClient(emailClient, cfg.Retry)

	publishService := services.NewPublishService(ledger, newsletterRepo, logger)
	subscriptionService := services.NewSubscriptionService(subscriberRepo, retryEmailClient, cfg.Server.BaseURL, logger)

	h := handlers.NewHandlers(publishService, subscriptionService, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.Handle("/admin/", middleware.Authenticate(logger)(h.AdminRoutes()))

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	deliveryWorker := worker.NewDeliveryWorker(
		queueRepo,
		newsletterRepo,
		retryEmailClient,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go deliveryWorker.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
