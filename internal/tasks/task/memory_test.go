// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/tasktrack/internal/platform/apperr"
	"github.com/taibuivan/tasktrack/internal/platform/dberr"
	"github.com/taibuivan/tasktrack/internal/platform/redis"
)

// memoryRepository is an in-process Task Store for service tests.
type memoryRepository struct {
	mu        sync.Mutex
	tasks     map[string]*Task
	clock     time.Time
	listCalls int
	failWith  error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		tasks: make(map[string]*Task),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick advances a fake clock so creation order is stable.
func (repository *memoryRepository) tick() time.Time {
	repository.clock = repository.clock.Add(time.Millisecond)
	return repository.clock
}

func (repository *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]*Task, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.listCalls++
	if repository.failWith != nil {
		return nil, repository.failWith
	}

	tasks := make([]*Task, 0)
	for _, task := range repository.tasks {
		if task.UserID == ownerID {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (repository *memoryRepository) FindByIDAndOwner(_ context.Context, id, ownerID string) (*Task, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return nil, repository.failWith
	}
	task, ok := repository.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, dberr.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (repository *memoryRepository) Create(_ context.Context, task *Task) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return repository.failWith
	}
	now := repository.tick()
	task.CreatedAt, task.UpdatedAt = now, now
	copied := *task
	repository.tasks[task.ID] = &copied
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, id, ownerID string, input UpdateInput) (*Task, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return nil, repository.failWith
	}
	task, ok := repository.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, dberr.ErrNotFound
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	task.UpdatedAt = repository.tick()
	copied := *task
	return &copied, nil
}

func (repository *memoryRepository) Delete(_ context.Context, id, ownerID string) (*Task, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return nil, repository.failWith
	}
	task, ok := repository.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, dberr.ErrNotFound
	}
	delete(repository.tasks, id)
	return task, nil
}

func (repository *memoryRepository) DeleteAll(context.Context) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	removed := int64(len(repository.tasks))
	repository.tasks = make(map[string]*Task)
	return removed, nil
}

func (repository *memoryRepository) storeDown() {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.failWith = apperr.Unavailable(apperr.DependencyStore, errors.New("connection refused"))
}

func (repository *memoryRepository) lists() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.listCalls
}

// countingRecorder captures cache observations.
type countingRecorder struct {
	mu      sync.Mutex
	lookups map[string]int
	errors  int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{lookups: make(map[string]int)}
}

func (recorder *countingRecorder) RecordCacheLookup(result string) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.lookups[result]++
}

func (recorder *countingRecorder) RecordDependencyError(string) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.errors++
}

// harness wires the task service against miniredis and an in-memory store.
type harness struct {
	mr       *miniredis.Miniredis
	client   *goredis.Client
	store    *memoryRepository
	cache    *RedisCache
	recorder *countingRecorder
	service  *Service
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRedisCache(client, redis.NewGuard(redis.DefaultGuardConfig("cache", 200*time.Millisecond), testLogger()))
	store := newMemoryRepository()
	recorder := newCountingRecorder()

	return &harness{
		mr:       mr,
		client:   client,
		store:    store,
		cache:    cache,
		recorder: recorder,
		service:  NewService(store, cache, 300*time.Second, recorder),
	}
}
