// Package main provides the worker application entry point.
// The worker rescores applications when position configuration changes or
// an asynchronous recalculation is requested.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
	"github.com/fairyhunter13/applicant-scorer/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/applicant-scorer/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/applicant-scorer/internal/app"
	"github.com/fairyhunter13/applicant-scorer/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Metrics on a dedicated port so Prometheus can scrape the worker.
	observability.InitMetrics()
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid redis url", slog.Any("error", err))
		os.Exit(1)
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	svc, err := app.NewScoringService(cfg, pool, rdb)
	if err != nil {
		slog.Error("scoring service init failed", slog.Any("error", err))
		os.Exit(1)
	}

	consumer, err := redpanda.NewConsumer(ctx, cfg.KafkaBrokers, cfg.KafkaConsumerGroup, cfg.KafkaTopicConfigChanges, svc, cfg.GetRetryConfig())
	if err != nil {
		slog.Error("redpanda consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer consumer.Close()

	slog.Info("worker started, waiting for recalculation requests",
		slog.String("topic", cfg.KafkaTopicConfigChanges),
		slog.String("group", cfg.KafkaConsumerGroup))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("worker error", slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	slog.Info("worker stopped")
}
