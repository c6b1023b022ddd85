// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package task implements the task service: the owner-scoped Task Store, the
per-owner Task Cache and the use cases that keep the two coherent.

# Consistency

The store is the system of record. Reads go through the cache and fall back to
the store on a miss. Writes hit the store first and only then re-prime the
cache from a fresh store read, so a client that writes and then lists sees its
own write. Cache failures degrade to store reads; store failures fail the request.
*/
package task

import "time"

// # Domain Entities

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput is the payload of a new task.
type CreateInput struct {
	Title       string
	Description string
}

// UpdateInput is a partial update. Nil fields keep their stored value.
type UpdateInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
)

// # Constraints

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)
