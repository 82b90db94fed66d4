package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ticketa/eventpay/internal/cache"
	"github.com/ticketa/eventpay/internal/config"
	"github.com/ticketa/eventpay/internal/core/service"
	"github.com/ticketa/eventpay/internal/infrastructure/gateway"
	"github.com/ticketa/eventpay/internal/infrastructure/notify"
	"github.com/ticketa/eventpay/internal/infrastructure/persistence/postgres"
	"github.com/ticketa/eventpay/internal/interfaces/rest/handlers"
	"github.com/ticketa/eventpay/internal/interfaces/rest/middleware"
	"github.com/ticketa/eventpay/internal/observability"
	"github.com/ticketa/eventpay/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting eventpay service",
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.New(registry)

	resourceRepo := postgres.NewResourceRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	gatewayClient := gateway.NewClient(cfg.Gateway)

	dispatcher := notify.NewDispatcher(&notify.LogSender{Logger: logger}, 10*time.Second, logger)

	coordinator := service.NewCoordinator(
		resourceRepo,
		gatewayClient,
		service.CoordinatorConfig{
			CallbackURL:    cfg.Payment.CallbackURL,
			PendingTimeout: cfg.Payment.PendingTimeout,
			VerifyTimeout:  cfg.Gateway.VerifyTimeout,
		},
		metrics,
		logger,
		service.NewListingEffects(resourceRepo, logger),
		service.NewRegistrationEffects(resourceRepo, eventRepo, dispatcher, logger),
	)

	attendanceCache := cache.NewCountCache(cfg.Cache.AttendanceTTL)

	h := handlers.NewHandlers(
		coordinator,
		resourceRepo,
		eventRepo,
		attendanceCache,
		handlers.Config{
			WebhookSecret:      cfg.Gateway.WebhookSecret,
			SuccessRedirectURL: cfg.Payment.SuccessRedirectURL,
			FailureRedirectURL: cfg.Payment.FailureRedirectURL,
		},
		metrics,
		logger,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

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

	sweeper := worker.NewPendingSweeper(
		resourceRepo,
		coordinator,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		cfg.Payment.PendingTimeout,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go sweeper.Start(workerCtx)

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

	logger.Info("shutting down")
	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	// Let in-flight notifications drain before the process exits.
	dispatcher.Wait()

	logger.Info("shutdown complete")
}
