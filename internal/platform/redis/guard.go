// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = gobreaker.ErrOpenState

// GuardConfig tunes a [Guard].
type GuardConfig struct {
	// Name identifies the breaker in logs and metrics.
	Name string

	// Timeout bounds every guarded call.
	Timeout time.Duration

	// ConsecutiveFailures trips the breaker open.
	ConsecutiveFailures uint32

	// OpenFor is how long the breaker stays open before probing again.
	OpenFor time.Duration

	// OnStateChange is notified with gobreaker state names. Optional.
	OnStateChange func(name, state string)
}

// DefaultGuardConfig returns the settings used by both services.
func DefaultGuardConfig(name string, timeout time.Duration) GuardConfig {
	return GuardConfig{
		Name:                name,
		Timeout:             timeout,
		ConsecutiveFailures: 5,
		OpenFor:             10 * time.Second,
	}
}

// Guard wraps Redis calls with a deadline and a circuit breaker.
//
// A cache miss ([redis.Nil]) is a successful call and never counts toward tripping.
// Neither does a call abandoned by its caller: only Redis itself can open the breaker.
type Guard struct {
	breaker *gobreaker.CircuitBreaker[any]
	timeout time.Duration
}

// NewGuard builds a Guard from cfg.
func NewGuard(cfg GuardConfig, logger *slog.Logger) *Guard {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			var abandoned *callerDoneError
			return err == nil || errors.Is(err, redis.Nil) || errors.As(err, &abandoned)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("redis_breaker_state_change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, to.String())
			}
		},
	}

	if cfg.OnStateChange != nil {
		cfg.OnStateChange(cfg.Name, gobreaker.StateClosed.String())
	}

	return &Guard{
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		timeout: cfg.Timeout,
	}
}

// callerDoneError marks a failure caused by the caller's own context ending
// before Redis answered.
type callerDoneError struct {
	err error
}

func (e *callerDoneError) Error() string { return e.err.Error() }
func (e *callerDoneError) Unwrap() error { return e.err }

// Execute runs op under guard's deadline and breaker.
//
// A context that is already done never reaches the breaker. A context that ends
// while op runs is reported to the breaker as a success.
//
// # Returns
//   - The value produced by op.
//   - op's error, the caller's context error, [context.DeadlineExceeded] on the
//     per-op timeout, or [ErrCircuitOpen].
func Execute[T any](context stdctx.Context, guard *Guard, op func(stdctx.Context) (T, error)) (T, error) {
	var zero T

	if err := context.Err(); err != nil {
		return zero, err
	}

	result, err := guard.breaker.Execute(func() (any, error) {
		opCtx, cancel := stdctx.WithTimeout(context, guard.timeout)
		defer cancel()

		value, err := op(opCtx)
		if err != nil && context.Err() != nil {
			return value, &callerDoneError{err: context.Err()}
		}
		return value, err
	})

	var abandoned *callerDoneError
	if errors.As(err, &abandoned) {
		return zero, abandoned.err
	}
	if err != nil {
		return zero, err
	}

	value, ok := result.(T)
	if !ok {
		return zero, nil
	}
	return value, nil
}
