// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/tasktrack/internal/platform/dberr"
	"github.com/taibuivan/tasktrack/internal/platform/redis"
	"github.com/taibuivan/tasktrack/internal/platform/sec"
	"github.com/taibuivan/tasktrack/internal/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// memoryUserRepository is an in-process Credential Store for service tests.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*User)}
}

func (repository *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if user, ok := repository.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryUserRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.users {
		if existing.Email == user.Email {
			return dberr.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	copied := *user
	repository.users[user.ID] = &copied
	return nil
}

func (repository *memoryUserRepository) DeleteAll(context.Context) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	removed := int64(len(repository.users))
	repository.users = make(map[string]*User)
	return removed, nil
}

// harness wires the auth service against miniredis and an in-memory store.
type harness struct {
	mr       *miniredis.Miniredis
	users    *memoryUserRepository
	tokens   *sec.TokenService
	registry *session.RedisRegistry
	gate     *session.Gate
	service  *Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	tokens, err := sec.NewTokenService(testSecret, "tasktrack.auth", 24*time.Hour, 30*time.Second)
	require.NoError(t, err)

	registry := session.NewRedisRegistry(client, redis.NewGuard(redis.DefaultGuardConfig("registry", 200*time.Millisecond), logger))
	users := newMemoryUserRepository()

	return &harness{
		mr:       mr,
		users:    users,
		tokens:   tokens,
		registry: registry,
		gate:     session.NewGate(registry, tokens, session.FailOpen, nil, logger),
		service:  NewService(users, tokens, sec.NewPasswordHasher(bcrypt.MinCost), registry),
	}
}
