// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/tasktrack/internal/platform/constants"
	"github.com/taibuivan/tasktrack/internal/platform/redis"
)

// Registry is the shared denylist of tokens revoked before their natural expiry.
//
// Both services hold a Registry pointed at the same backend: the auth service
// writes to it on logout and every Session Gate reads from it.
type Registry interface {
	// Revoke denylists token for ttl. Revoking an already revoked token succeeds.
	Revoke(ctx context.Context, token string, ttl time.Duration) error

	// IsRevoked reports whether token is denylisted. A non-nil error means the
	// answer is unknown; the caller's [FailurePolicy] decides what that means.
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RedisRegistry stores revoked tokens as self-expiring Redis keys.
type RedisRegistry struct {
	client goredis.UniversalClient
	guard  *redis.Guard
}

// NewRedisRegistry creates a new [RedisRegistry].
func NewRedisRegistry(client goredis.UniversalClient, guard *redis.Guard) *RedisRegistry {
	return &RedisRegistry{client: client, guard: guard}
}

func revokedKey(token string) string {
	return constants.RedisPrefixRevoked + token
}

// Revoke writes blacklist:<token> with an expiry. A non-positive ttl falls back
// to [constants.DefaultRevocationTTL], the maximum token lifetime.
func (registry *RedisRegistry) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = constants.DefaultRevocationTTL
	}

	_, err := redis.Execute(ctx, registry.guard, func(ctx context.Context) (string, error) {
		return registry.client.Set(ctx, revokedKey(token), "true", ttl).Result()
	})
	if err != nil {
		return fmt.Errorf("session_revoke_failed: %w", err)
	}
	return nil
}

// IsRevoked checks for the existence of blacklist:<token>.
func (registry *RedisRegistry) IsRevoked(ctx context.Context, token string) (bool, error) {
	count, err := redis.Execute(ctx, registry.guard, func(ctx context.Context) (int64, error) {
		return registry.client.Exists(ctx, revokedKey(token)).Result()
	})
	if err != nil {
		return false, fmt.Errorf("session_lookup_failed: %w", err)
	}
	return count > 0, nil
}
