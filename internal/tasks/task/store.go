// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import "context"

// Repository is the Task Store. Every method is scoped by owner: a task that
// exists but belongs to someone else is reported exactly like a missing one.
type Repository interface {

	// ListByOwner returns every task of ownerID, newest first.
	ListByOwner(context context.Context, ownerID string) ([]*Task, error)

	/*
		FindByIDAndOwner returns one task.

		Returns:
		  - error: dberr.ErrNotFound when missing or not owned
	*/
	FindByIDAndOwner(context context.Context, id, ownerID string) (*Task, error)

	// Create inserts task and fills its timestamps.
	Create(context context.Context, task *Task) error

	/*
		Update applies only the non-nil fields of input and returns the stored result.

		Returns:
		  - error: dberr.ErrNotFound when missing or not owned
	*/
	Update(context context.Context, id, ownerID string, input UpdateInput) (*Task, error)

	// Delete removes and returns one task. dberr.ErrNotFound when missing or not owned.
	Delete(context context.Context, id, ownerID string) (*Task, error)

	// DeleteAll removes every task. Used by the development seeder only.
	DeleteAll(context context.Context) (int64, error)
}
