// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tasktrack/internal/platform/redis"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestGuard_PassesThroughValues(t *testing.T) {
	mr, client := setupTestRedis(t)
	require.NoError(t, mr.Set("k", "v"))

	guard := redis.NewGuard(redis.DefaultGuardConfig("test", time.Second), discardLogger())

	value, err := redis.Execute(context.Background(), guard, func(ctx context.Context) (string, error) {
		return client.Get(ctx, "k").Result()
	})
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestGuard_MissesDoNotTrip(t *testing.T) {
	_, client := setupTestRedis(t)
	guard := redis.NewGuard(redis.DefaultGuardConfig("test", time.Second), discardLogger())

	for i := 0; i < 10; i++ {
		_, err := redis.Execute(context.Background(), guard, func(ctx context.Context) (string, error) {
			return client.Get(ctx, "absent").Result()
		})
		assert.ErrorIs(t, err, goredis.Nil)
	}
}

func TestGuard_TripsAfterConsecutiveFailures(t *testing.T) {
	var states []string
	cfg := redis.DefaultGuardConfig("test", time.Second)
	cfg.ConsecutiveFailures = 2
	cfg.OnStateChange = func(_, state string) { states = append(states, state) }

	guard := redis.NewGuard(cfg, discardLogger())
	failing := func(context.Context) (string, error) { return "", errors.New("connection refused") }

	for i := 0; i < 2; i++ {
		_, err := redis.Execute(context.Background(), guard, failing)
		require.Error(t, err)
	}

	called := false
	_, err := redis.Execute(context.Background(), guard, func(context.Context) (string, error) {
		called = true
		return "", nil
	})
	assert.ErrorIs(t, err, redis.ErrCircuitOpen)
	assert.False(t, called)
	assert.Equal(t, []string{"closed", "open"}, states)
}

func TestGuard_AppliesTimeout(t *testing.T) {
	guard := redis.NewGuard(redis.DefaultGuardConfig("test", 20*time.Millisecond), discardLogger())

	_, err := redis.Execute(context.Background(), guard, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGuard_CallerCancellationDoesNotTrip(t *testing.T) {
	var states []string
	cfg := redis.DefaultGuardConfig("test", time.Second)
	cfg.ConsecutiveFailures = 2
	cfg.OnStateChange = func(_, state string) { states = append(states, state) }
	guard := redis.NewGuard(cfg, discardLogger())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	for i := 0; i < 5; i++ {
		_, err := redis.Execute(cancelled, guard, func(ctx context.Context) (string, error) {
			calls++
			return "", ctx.Err()
		})
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Zero(t, calls)

	// Cancelled while the call is in flight
	for i := 0; i < 5; i++ {
		inFlight, cancelInFlight := context.WithCancel(context.Background())
		_, err := redis.Execute(inFlight, guard, func(ctx context.Context) (string, error) {
			cancelInFlight()
			<-ctx.Done()
			return "", ctx.Err()
		})
		assert.ErrorIs(t, err, context.Canceled)
	}

	value, err := redis.Execute(context.Background(), guard, func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, []string{"closed"}, states)
}
