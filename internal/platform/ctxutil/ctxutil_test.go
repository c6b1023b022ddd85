// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tasktrack/internal/platform/ctxutil"
	"github.com/taibuivan/tasktrack/internal/platform/sec"
)

func TestZeroValues(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetRequestID(ctx))
	assert.Empty(t, ctxutil.GetSessionReason(ctx))
	assert.Nil(t, ctxutil.GetAuthUser(ctx))
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx))
}

func TestRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	claims := &sec.AuthClaims{UserID: "0190f0a2-7b7c-7d2e-9a4b-3c2d1e0f9a8b", Email: "a@x.com"}

	ctx := ctxutil.WithRequestID(context.Background(), "req-1")
	ctx = ctxutil.WithLogger(ctx, logger)
	ctx = ctxutil.WithAuthUser(ctx, claims)
	ctx = ctxutil.WithSessionReason(ctx, "revoked")

	assert.Equal(t, "req-1", ctxutil.GetRequestID(ctx))
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
	assert.Equal(t, "revoked", ctxutil.GetSessionReason(ctx))

	admitted := ctxutil.GetAuthUser(ctx)
	require.NotNil(t, admitted)
	assert.Equal(t, claims.UserID, admitted.UserID)
}
