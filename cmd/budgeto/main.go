package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgeto/internal/backend"
	"budgeto/internal/cache"
	"budgeto/internal/config"
	applog "budgeto/internal/log"
	"budgeto/internal/services"
	"budgeto/internal/storage"
)

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	// Load .env file for local development (ignore errors when absent)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     logLevel(cfg.LogLevel),
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	logger.Info("Starting budgeto")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	adapter, err := backend.Open(cfg)
	if err != nil {
		logger.Error("Failed to open storage backend",
			applog.FieldError, err,
			applog.FieldBackend, cfg.StorageBackend)
		os.Exit(1)
	}
	defer adapter.Close()
	logger.Info("Storage backend ready", applog.FieldBackend, cfg.StorageBackend)

	store := storage.New(adapter)

	cacheManager := cache.NewManager()
	for _, c := range store.Caches() {
		cacheManager.Register(c)
	}
	cacheManager.StartCleanup(cfg.CacheCleanupInterval)
	defer cacheManager.Stop()

	processor := services.NewProcessor(store)
	service := services.NewBudgetService(store, processor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Recurrence processing configured",
		"interval", cfg.ProcessInterval)

	// Process once on startup, mirroring on-activation processing, then keep
	// sweeping on the ticker.
	if count, err := processor.ProcessDue(ctx, time.Now()); err != nil {
		logger.Error("Initial recurring processing failed", applog.FieldError, err)
	} else {
		logger.Info("Initial recurring processing complete", applog.FieldCount, count)
	}

	ticker := time.NewTicker(cfg.ProcessInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				count, err := processor.ProcessDue(ctx, now)
				if err != nil {
					logger.Error("Recurring processing failed", applog.FieldError, err)
					continue
				}
				dash, err := service.Dashboard(ctx)
				if err != nil {
					logger.Error("Dashboard refresh failed", applog.FieldError, err)
					continue
				}
				logger.Info("Dashboard refreshed",
					applog.FieldCount, count,
					"balance_cents", dash.Balance.Cents,
					"previsional_cents", dash.PrevisionalBalance.Cents,
					"upcoming_deadlines", len(dash.UpcomingDeadlines))
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())
	cancel()
	logger.Info("budgeto stopped")
}
