// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the managed client shared by the revocation registry and
the task cache.

Both consumers treat Redis as a degradable dependency: every call goes through a
[Guard] that bounds it with a short deadline and a circuit breaker, so a slow or
unreachable server costs each request at most one timeout before the breaker
opens and later calls fail immediately.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connection timeouts. Per-operation deadlines are applied by [Guard].
const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1 * time.Second
	writeTimeout = 1 * time.Second
	pingTimeout  = 2 * time.Second
)

// NewClient parses a Redis URL and returns a client.
//
// Unlike the Postgres pool, an unreachable Redis is not fatal at startup: the
// services keep serving with the registry and cache degraded, so the failed ping
// is only logged.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = 10
	options.MinIdleConns = 2
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout
	options.ContextTimeoutEnabled = true

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		logger.Warn("redis_unreachable_at_startup",
			slog.String("addr", options.Addr),
			slog.Any("error", err),
		)
		return client, nil
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
