// Command server starts the applicant scoring HTTP API.
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

	"github.com/redis/go-redis/v9"

	httpserver "github.com/fairyhunter13/applicant-scorer/internal/adapter/httpserver"
	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
	"github.com/fairyhunter13/applicant-scorer/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/applicant-scorer/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/applicant-scorer/internal/app"
	"github.com/fairyhunter13/applicant-scorer/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
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
	slog.Info("scoring service ready",
		slog.Bool("oracle_enabled", cfg.OracleConfigured()),
		slog.Int("concurrency", cfg.ScoringConcurrency))

	// Async recalculation is only offered when a broker is configured.
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := redpanda.NewProducer(ctx, cfg.KafkaBrokers, cfg.KafkaTopicConfigChanges)
		if err != nil {
			slog.Error("redpanda producer connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer producer.Close()
		svc = svc.WithPublisher(producer)
	}

	dbCheck, redisCheck := app.BuildReadinessChecks(pool, app.NewRedisPinger(rdb))
	srv := httpserver.NewServer(svc, dbCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
