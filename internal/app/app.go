// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app holds the startup wiring shared by cmd/auth and cmd/tasks.

# Startup Sequence

 1. Initialize structured logger.
 2. Load configuration from environment variables.
 3. Connect to PostgreSQL (pgxpool) and run this service's migrations.
 4. Connect to Redis. An unreachable Redis is logged, not fatal.
 5. Build the session components both services share: token verifier,
    revocation registry and Session Gate.
 6. Hand the [Runtime] to the binary, which wires its own domain.
 7. Serve with graceful shutdown.

No business logic lives here. All wiring is explicit constructor injection.
*/
package app

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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/tasktrack/internal/api"
	"github.com/taibuivan/tasktrack/internal/platform/config"
	"github.com/taibuivan/tasktrack/internal/platform/constants"
	"github.com/taibuivan/tasktrack/internal/platform/metrics"
	"github.com/taibuivan/tasktrack/internal/platform/migration"
	pgstore "github.com/taibuivan/tasktrack/internal/platform/postgres"
	redisstore "github.com/taibuivan/tasktrack/internal/platform/redis"
	"github.com/taibuivan/tasktrack/internal/platform/sec"
	"github.com/taibuivan/tasktrack/internal/session"
)

// startupTimeout catches misconfiguration quickly rather than hanging indefinitely.
const startupTimeout = 30 * time.Second

// Runtime is the infrastructure of one running service.
type Runtime struct {
	Config    *config.Config
	Log       *slog.Logger
	Pool      *pgxpool.Pool
	Redis     *goredis.Client
	Metrics   *prometheus.Registry
	Collector *metrics.Collector
	Tokens    *sec.TokenService
	Registry  *session.RedisRegistry
	Gate      *session.Gate
}

// NewLogger returns the JSON logger of a service, tagged with its name.
func NewLogger(service string, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String("app", constants.AppName),
		slog.String(constants.FieldService, service),
	)
}

/*
Open loads configuration and connects every dependency of service.

Returns:
  - *Runtime: Ready-to-wire infrastructure. Call [Runtime.Close] on exit.
  - error: Configuration, Postgres or migration failures
*/
func Open(service string) (*Runtime, error) {
	cfg, err := config.Load(service)
	if err != nil {
		return nil, err
	}

	log := NewLogger(service, cfg.Debug)
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("revocation_policy", failurePolicy(cfg).String()),
	)

	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// # PostgreSQL
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, cfg.MigrationTable, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// # Redis
	client, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// # Observability
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry, service)

	// # Session
	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, cfg.TokenLifetime, cfg.TokenLeeway)
	if err != nil {
		pool.Close()
		_ = client.Close()
		return nil, fmt.Errorf("initialize token service: %w", err)
	}

	runtime := &Runtime{
		Config:    cfg,
		Log:       log,
		Pool:      pool,
		Redis:     client,
		Metrics:   registry,
		Collector: collector,
		Tokens:    tokens,
	}

	runtime.Registry = session.NewRedisRegistry(client, runtime.Guard("revocation_registry"))
	runtime.Gate = session.NewGate(runtime.Registry, tokens, failurePolicy(cfg), collector, log)

	return runtime, nil
}

// Guard returns a breaker-guarded executor whose state is exported as a metric.
func (runtime *Runtime) Guard(name string) *redisstore.Guard {
	guardConfig := redisstore.DefaultGuardConfig(name, runtime.Config.RedisOpTimeout)
	guardConfig.OnStateChange = runtime.Collector.RecordBreakerState
	return redisstore.NewGuard(guardConfig, runtime.Log)
}

// Handlers returns the infrastructure endpoints plus the given domain mounts.
func (runtime *Runtime) Handlers(mounts ...api.Mount) api.Handlers {
	liveness, readiness := api.NewHealthHandlers(runtime.Config.Service, api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, runtime.Pool)
		},
		CheckRedis: func(ctx context.Context) error {
			return redisstore.Ping(ctx, runtime.Redis)
		},
	}, runtime.Log)

	return api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Metrics:    metrics.Handler(runtime.Metrics),
		Instrument: runtime.Collector.Middleware,
		Mounts:     mounts,
	}
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then drains in-flight requests.
func (runtime *Runtime) Serve(handlers api.Handlers) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := api.NewServer(ctx, runtime.Config, runtime.Log, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		runtime.Log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	}

	runtime.Log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	runtime.Log.Info("server_stopped_cleanly")
	return nil
}

// Close releases the Postgres pool and the Redis client.
func (runtime *Runtime) Close() {
	runtime.Log.Info("closing_postgres_pool")
	runtime.Pool.Close()

	runtime.Log.Info("closing_redis_client")
	if err := runtime.Redis.Close(); err != nil {
		runtime.Log.Error("redis_close_error", slog.Any("error", err))
	}
}

// Must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func Must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

func failurePolicy(cfg *config.Config) session.FailurePolicy {
	if cfg.RevocationFailClosed {
		return session.FailClosed
	}
	return session.FailOpen
}
