// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"time"
)

// Cache holds one snapshot of each owner's full task list.
//
// It never queries the store itself; [Service] composes the read-through and
// re-prime paths. Dropping every entry loses no data.
type Cache interface {

	// GetAll returns the cached list and true, or false on a miss.
	GetAll(context context.Context, ownerID string) ([]*Task, bool, error)

	// Put overwrites the snapshot of ownerID with an expiry.
	Put(context context.Context, ownerID string, tasks []*Task, ttl time.Duration) error

	// Invalidate drops the snapshot of ownerID.
	Invalidate(context context.Context, ownerID string) error
}
