// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tasktrack/internal/platform/apperr"
	"github.com/taibuivan/tasktrack/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	assert.ErrorIs(t, dberr.Wrap(fmt.Errorf("scan: %w", pgx.ErrNoRows), "find"), dberr.ErrNotFound)
	assert.ErrorIs(t, dberr.Wrap(&pgconn.PgError{Code: "23505"}, "insert"), dberr.ErrDuplicate)

	wrapped := dberr.Wrap(errors.New("connection refused"), "list tasks")
	assert.Equal(t, apperr.DependencyStore, apperr.DependencyOf(wrapped))
	assert.Contains(t, apperr.As(wrapped).Cause.Error(), "list tasks")
}
