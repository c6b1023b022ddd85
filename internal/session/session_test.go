// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tasktrack/internal/platform/redis"
	"github.com/taibuivan/tasktrack/internal/platform/sec"
	"github.com/taibuivan/tasktrack/internal/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type recorder struct {
	decisions    []string
	dependencies []string
}

func (r *recorder) RecordGateDecision(outcome string)       { r.decisions = append(r.decisions, outcome) }
func (r *recorder) RecordDependencyError(dependency string) { r.dependencies = append(r.dependencies, dependency) }

type fixture struct {
	mr       *miniredis.Miniredis
	registry *session.RedisRegistry
	tokens   *sec.TokenService
	recorder *recorder
}

func setup(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	guard := redis.NewGuard(redis.DefaultGuardConfig("registry", 200*time.Millisecond), logger)

	tokens, err := sec.NewTokenService(testSecret, "tasktrack.auth", time.Hour, 30*time.Second)
	require.NoError(t, err)

	return &fixture{
		mr:       mr,
		registry: session.NewRedisRegistry(client, guard),
		tokens:   tokens,
		recorder: &recorder{},
	}
}

func (f *fixture) gate(policy session.FailurePolicy) *session.Gate {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return session.NewGate(f.registry, f.tokens, policy, f.recorder, logger)
}

// # Registry

func TestRedisRegistry_RevokeIsIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	revoked, err := f.registry.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, f.registry.Revoke(ctx, "tok", time.Hour))
	require.NoError(t, f.registry.Revoke(ctx, "tok", time.Hour))

	revoked, err = f.registry.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	value, err := f.mr.Get("blacklist:tok")
	require.NoError(t, err)
	assert.Equal(t, "true", value)
	assert.Equal(t, time.Hour, f.mr.TTL("blacklist:tok"))
}

func TestRedisRegistry_DefaultTTL(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.registry.Revoke(context.Background(), "tok", 0))
	assert.Equal(t, 24*time.Hour, f.mr.TTL("blacklist:tok"))
}

func TestRedisRegistry_EntriesSelfExpire(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.registry.Revoke(ctx, "tok", time.Minute))
	f.mr.FastForward(2 * time.Minute)

	revoked, err := f.registry.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRegistry_BackendDown(t *testing.T) {
	f := setup(t)
	f.mr.Close()

	_, err := f.registry.IsRevoked(context.Background(), "tok")
	assert.Error(t, err)
	assert.Error(t, f.registry.Revoke(context.Background(), "tok", time.Hour))
}

// # Gate

func TestGate_Admit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	valid, _, err := f.tokens.Issue("user-1", "a@x.com")
	require.NoError(t, err)

	revokedToken, _, err := f.tokens.Issue("user-2", "b@x.com")
	require.NoError(t, err)
	require.NoError(t, f.registry.Revoke(ctx, revokedToken, time.Hour))

	other, err := sec.NewTokenService("another-secret-another-secret-xx", "tasktrack.auth", time.Hour, 0)
	require.NoError(t, err)
	forged, _, err := other.Issue("user-1", "a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		reason session.Reason
	}{
		{"admitted", valid, session.ReasonAdmitted},
		{"no_token", "", session.ReasonNoToken},
		{"revoked", revokedToken, session.ReasonRevoked},
		{"malformed", "not-a-token", session.ReasonInvalid},
		{"forged", forged, session.ReasonInvalid},
	}

	gate := f.gate(session.FailOpen)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := gate.Admit(ctx, tt.token)
			assert.Equal(t, tt.reason, decision.Reason)
			assert.Equal(t, tt.reason == session.ReasonAdmitted, decision.Admitted())
		})
	}

	decision := gate.Admit(ctx, valid)
	require.True(t, decision.Admitted())
	assert.Equal(t, "user-1", decision.Claims.UserID)
	assert.Equal(t, "a@x.com", decision.Claims.Email)
	assert.Contains(t, f.recorder.decisions, "revoked")
}

func TestGate_RevocationBeatsNaturalExpiry(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	gate := f.gate(session.FailOpen)

	token, _, err := f.tokens.Issue("user-1", "a@x.com")
	require.NoError(t, err)
	require.True(t, gate.Admit(ctx, token).Admitted())

	require.NoError(t, f.registry.Revoke(ctx, token, time.Hour))
	assert.Equal(t, session.ReasonRevoked, gate.Admit(ctx, token).Reason)
}

func TestGate_RegistryUnavailable(t *testing.T) {
	t.Run("fail_open_admits_valid_tokens", func(t *testing.T) {
		f := setup(t)
		token, _, err := f.tokens.Issue("user-1", "a@x.com")
		require.NoError(t, err)
		f.mr.Close()

		decision := f.gate(session.FailOpen).Admit(context.Background(), token)
		assert.True(t, decision.Admitted())
		assert.Equal(t, []string{"registry"}, f.recorder.dependencies)
	})

	t.Run("fail_open_still_verifies", func(t *testing.T) {
		f := setup(t)
		f.mr.Close()

		decision := f.gate(session.FailOpen).Admit(context.Background(), "garbage")
		assert.Equal(t, session.ReasonInvalid, decision.Reason)
	})

	t.Run("fail_closed_rejects", func(t *testing.T) {
		f := setup(t)
		token, _, err := f.tokens.Issue("user-1", "a@x.com")
		require.NoError(t, err)
		f.mr.Close()

		decision := f.gate(session.FailClosed).Admit(context.Background(), token)
		assert.False(t, decision.Admitted())
		assert.Equal(t, session.ReasonRegistryUnavailable, decision.Reason)
		assert.Equal(t, "Invalid or expired token", decision.Reason.Message())
	})
}

func TestGate_AbandonedRequestsKeepRevocationsEnforced(t *testing.T) {
	f := setup(t)
	gate := f.gate(session.FailOpen)

	token, _, err := f.tokens.Issue("user-1", "a@x.com")
	require.NoError(t, err)
	require.NoError(t, f.registry.Revoke(context.Background(), token, time.Hour))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 10; i++ {
		decision := gate.Admit(cancelled, token)
		assert.False(t, decision.Admitted())
		assert.Equal(t, session.ReasonAbandoned, decision.Reason)
	}
	assert.Empty(t, f.recorder.dependencies)

	assert.Equal(t, session.ReasonRevoked, gate.Admit(context.Background(), token).Reason)
}

func TestReason_Message(t *testing.T) {
	assert.Equal(t, "No token provided", session.ReasonNoToken.Message())
	for _, reason := range []session.Reason{session.ReasonRevoked, session.ReasonInvalid, session.ReasonRegistryUnavailable} {
		assert.Equal(t, "Invalid or expired token", reason.Message())
	}
}
