// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/tasktrack/internal/platform/constants"
	"github.com/taibuivan/tasktrack/internal/platform/redis"
)

// RedisCache stores each owner's list as a JSON array under todos:<ownerID>.
type RedisCache struct {
	client goredis.UniversalClient
	guard  *redis.Guard
}

// NewRedisCache creates a new [RedisCache].
func NewRedisCache(client goredis.UniversalClient, guard *redis.Guard) *RedisCache {
	return &RedisCache{client: client, guard: guard}
}

func listKey(ownerID string) string {
	return constants.RedisPrefixTaskList + ownerID
}

// GetAll reads and decodes the snapshot. A corrupt entry is reported as an error
// so the caller falls through to the store and overwrites it.
func (cache *RedisCache) GetAll(ctx context.Context, ownerID string) ([]*Task, bool, error) {
	payload, err := redis.Execute(ctx, cache.guard, func(ctx context.Context) ([]byte, error) {
		return cache.client.Get(ctx, listKey(ownerID)).Bytes()
	})
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("task_cache_get_failed: %w", err)
	}

	var tasks []*Task
	if err := json.Unmarshal(payload, &tasks); err != nil {
		return nil, false, fmt.Errorf("task_cache_decode_failed: %w", err)
	}
	if tasks == nil {
		tasks = make([]*Task, 0)
	}
	return tasks, true, nil
}

// Put writes the snapshot with SET EX.
func (cache *RedisCache) Put(ctx context.Context, ownerID string, tasks []*Task, ttl time.Duration) error {
	if tasks == nil {
		tasks = make([]*Task, 0)
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("task_cache_encode_failed: %w", err)
	}

	_, err = redis.Execute(ctx, cache.guard, func(ctx context.Context) (string, error) {
		return cache.client.Set(ctx, listKey(ownerID), payload, ttl).Result()
	})
	if err != nil {
		return fmt.Errorf("task_cache_put_failed: %w", err)
	}
	return nil
}

// Invalidate deletes the snapshot. Deleting a missing key succeeds.
func (cache *RedisCache) Invalidate(ctx context.Context, ownerID string) error {
	_, err := redis.Execute(ctx, cache.guard, func(ctx context.Context) (int64, error) {
		return cache.client.Del(ctx, listKey(ownerID)).Result()
	})
	if err != nil {
		return fmt.Errorf("task_cache_invalidate_failed: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached list. Used by the development seeder, so it
// walks the keyspace with SCAN instead of blocking Redis with KEYS.
func (cache *RedisCache) InvalidateAll(ctx context.Context) (int64, error) {
	var removed int64

	iterator := cache.client.Scan(ctx, 0, constants.RedisPrefixTaskList+"*", 100).Iterator()
	for iterator.Next(ctx) {
		count, err := cache.client.Del(ctx, iterator.Val()).Result()
		if err != nil {
			return removed, fmt.Errorf("task_cache_invalidate_all_failed: %w", err)
		}
		removed += count
	}
	if err := iterator.Err(); err != nil {
		return removed, fmt.Errorf("task_cache_invalidate_all_failed: %w", err)
	}

	return removed, nil
}
