package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Breyner794/barber-shop/internal/app"
	"github.com/Breyner794/barber-shop/internal/config"
	"github.com/Breyner794/barber-shop/internal/db"
	"github.com/Breyner794/barber-shop/internal/metrics"
	"github.com/Breyner794/barber-shop/internal/pkg/storage"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Connect DB; without a DSN everything lives in memory
	var pool *pgxpool.Pool
	if cfg.DBDSN != "" {
		pool, err = db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			logger.Error("failed to connect to db", slog.Any("err", err))
			os.Exit(1)
		}
		defer pool.Close()
	} else {
		logger.Warn("DB_DSN not set, using in-memory stores")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			// The cache falls back to the database on every miss
			logger.Warn("redis unreachable, catalog cache degraded", slog.Any("err", err))
		}
		defer rdb.Close()
	}

	fileStorage, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("failed to init storage", slog.Any("err", err))
		os.Exit(1)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	container := app.NewContainer(app.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.Origins(),
		DBPool:          pool,
		Redis:           rdb,
		CatalogCacheTTL: cfg.CatalogCacheTTL,
		Storage:         fileStorage,
		SlotGranularity: cfg.SlotGranularity,
		DefaultLocation: cfg.DefaultLocation,
		WriteTimeout:    cfg.WriteTimeout,
		Metrics:         m,
		Logger:          logger,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		logger.Info("server running", slog.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("err", err))
			stop()
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("err", err))
	}

	logger.Info("server exited gracefully")
}
