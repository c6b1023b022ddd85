// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/tasktrack/internal/platform/apperr"
	"github.com/taibuivan/tasktrack/internal/platform/ctxutil"
	"github.com/taibuivan/tasktrack/internal/platform/dberr"
	"github.com/taibuivan/tasktrack/internal/platform/validate"
	"github.com/taibuivan/tasktrack/pkg/pointer"
	"github.com/taibuivan/tasktrack/pkg/uuid"
)

// # Contracts & Types

// Cache lookup results reported to the [Recorder].
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

// Recorder receives cache observations. Satisfied by *metrics.Collector.
type Recorder interface {
	RecordCacheLookup(result string)
	RecordDependencyError(dependency string)
}

type nopRecorder struct{}

func (nopRecorder) RecordCacheLookup(string)     {}
func (nopRecorder) RecordDependencyError(string) {}

// Service implements the task use cases on top of the store and the cache.
type Service struct {
	taskRepository Repository
	cache          Cache
	cacheTTL       time.Duration
	recorder       Recorder
}

/*
NewService constructs a new [Service].

Parameters:
  - tasks: Task Store, the system of record
  - cache: Per-owner list cache
  - cacheTTL: Safety-net expiry of every cached list
  - recorder: Cache metrics sink, nil for none
*/
func NewService(tasks Repository, cache Cache, cacheTTL time.Duration, recorder Recorder) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		taskRepository: tasks,
		cache:          cache,
		cacheTTL:       cacheTTL,
		recorder:       recorder,
	}
}

// # Read Operations

/*
List returns every task of ownerID, newest first.

Description: A cache hit is returned without touching the store. On a miss, or
when the cache cannot be read, the store is queried and the fresh list re-primes
the cache before it is returned.
*/
func (service *Service) List(context context.Context, ownerID string) ([]*Task, error) {
	tasks, hit, err := service.cache.GetAll(context, ownerID)
	switch {
	case err != nil:
		service.cacheFailed(context, "task_cache_read_failed", ownerID, err)
		service.recorder.RecordCacheLookup(LookupError)
	case hit:
		service.recorder.RecordCacheLookup(LookupHit)
		return tasks, nil
	default:
		service.recorder.RecordCacheLookup(LookupMiss)
	}

	tasks, err = service.taskRepository.ListByOwner(context, ownerID)
	if err != nil {
		return nil, service.storeError(err)
	}

	if err := service.cache.Put(context, ownerID, tasks, service.cacheTTL); err != nil {
		service.cacheFailed(context, "task_cache_put_failed", ownerID, err)
	}

	return tasks, nil
}

// Get returns one task of ownerID. Unknown, foreign and malformed ids are all "Task not found".
func (service *Service) Get(context context.Context, id, ownerID string) (*Task, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Task")
	}

	task, err := service.taskRepository.FindByIDAndOwner(context, id, ownerID)
	if err != nil {
		return nil, service.storeError(err)
	}
	return task, nil
}

// # Write Operations

/*
Create validates and persists a new task for ownerID.

Returns:
  - *Task: The stored task, completed=false
  - error: ValidationError or a store error
*/
func (service *Service) Create(context context.Context, ownerID string, input CreateInput) (*Task, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, title, "Title is required").
		MaxLen(FieldTitle, title, MaxTitleLength).
		MaxLen(FieldDescription, description, MaxDescriptionLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	task := &Task{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
	}

	if err := service.taskRepository.Create(context, task); err != nil {
		return nil, service.storeError(err)
	}

	service.refresh(context, ownerID)

	ctxutil.GetLogger(context).InfoContext(context, "task_created",
		slog.String("task_id", task.ID),
		slog.String("user_id", ownerID),
	)

	return task, nil
}

/*
Update applies a partial update to one task of ownerID.

Description: Absent fields keep their stored value. A title that is present but
blank is rejected before the store is touched.

Returns:
  - error: ValidationError, NotFound or a store error
*/
func (service *Service) Update(context context.Context, id, ownerID string, input UpdateInput) (*Task, error) {
	input = normalizeUpdate(input)

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.
			Custom(FieldTitle, *input.Title == "", "Title cannot be empty").
			MaxLen(FieldTitle, *input.Title, MaxTitleLength)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, MaxDescriptionLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Task")
	}

	task, err := service.taskRepository.Update(context, id, ownerID, input)
	if err != nil {
		return nil, service.storeError(err)
	}

	service.refresh(context, ownerID)

	return task, nil
}

// Delete removes and returns one task of ownerID.
func (service *Service) Delete(context context.Context, id, ownerID string) (*Task, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Task")
	}

	task, err := service.taskRepository.Delete(context, id, ownerID)
	if err != nil {
		return nil, service.storeError(err)
	}

	service.refresh(context, ownerID)

	ctxutil.GetLogger(context).InfoContext(context, "task_deleted",
		slog.String("task_id", task.ID),
		slog.String("user_id", ownerID),
	)

	return task, nil
}

// # Cache Coherency

// refresh re-primes the cached list of ownerID after a committed write.
//
// It must run after the store write and before the response. If the fresh list
// cannot be read the entry is dropped instead, so the next read goes to the store.
func (service *Service) refresh(context context.Context, ownerID string) {
	tasks, err := service.taskRepository.ListByOwner(context, ownerID)
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "task_cache_refresh_read_failed",
			slog.String("user_id", ownerID),
			slog.Any("error", err),
		)
		if err := service.cache.Invalidate(context, ownerID); err != nil {
			service.cacheFailed(context, "task_cache_invalidate_failed", ownerID, err)
		}
		return
	}

	if err := service.cache.Put(context, ownerID, tasks, service.cacheTTL); err != nil {
		service.cacheFailed(context, "task_cache_put_failed", ownerID, err)
	}
}

func (service *Service) cacheFailed(context context.Context, event, ownerID string, err error) {
	service.recorder.RecordDependencyError(string(apperr.DependencyCache))
	ctxutil.GetLogger(context).WarnContext(context, event,
		slog.String("user_id", ownerID),
		slog.Any("error", err),
	)
}

// # Helpers

func normalizeUpdate(input UpdateInput) UpdateInput {
	input.Title = pointer.Map(input.Title, strings.TrimSpace)
	input.Description = pointer.Map(input.Description, strings.TrimSpace)
	return input
}

// storeError maps a missing row to 404 and counts every other store failure.
func (service *Service) storeError(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return apperr.NotFound("Task")
	}
	if dependency := apperr.DependencyOf(err); dependency != "" {
		service.recorder.RecordDependencyError(string(dependency))
	}
	return err
}
