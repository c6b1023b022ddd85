// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/tasktrack/internal/platform/apperr"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

var (
	// ErrNotFound is returned when a queried row doesn't exist.
	ErrNotFound = errors.New("dberr: row not found")

	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("dberr: duplicate key")
)

// Wrap classifies a pgx error for the service layer.
//
// Missing rows and unique violations become sentinels the service maps to 404/409.
// Everything else becomes a store-dependency [apperr.AppError].
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique constraint mapping
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == uniqueViolation {
		return ErrDuplicate
	}

	// 3. Unknown query errors abort the request
	return apperr.Unavailable(apperr.DependencyStore, fmt.Errorf("%s: %w", action, err))
}
