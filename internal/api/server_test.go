// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tasktrack/internal/platform/config"
	"github.com/taibuivan/tasktrack/internal/platform/constants"
	"github.com/taibuivan/tasktrack/internal/platform/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		Service:        constants.ServiceTasks,
		ServerPort:     "0",
		AllowedOrigins: []string{"http://localhost:5173"},
	}
}

func newTestRouter(t *testing.T, deps HealthDependencies) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry, constants.ServiceTasks)
	liveness, readiness := NewHealthHandlers(constants.ServiceTasks, deps, logger)

	echo := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	})

	return NewRouter(ctx, testConfig(), logger, Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Metrics:    metrics.Handler(registry),
		Instrument: collector.Middleware,
		Mounts:     []Mount{{Prefix: "/api/tasks", Handler: echo}},
	})
}

func serve(router http.Handler, method, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, path, nil))
	return recorder
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, HealthDependencies{})

	recorder := serve(router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, constants.ServiceTasks, body["service"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
}

func TestReady(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: connection refused") }

	router := newTestRouter(t, HealthDependencies{CheckDatabase: up, CheckRedis: up})
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ready").Code)

	router = newTestRouter(t, HealthDependencies{CheckDatabase: up, CheckRedis: down})
	recorder := serve(router, http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var body struct {
		Status string        `json:"status"`
		Checks []checkResult `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	require.Len(t, body.Checks, 2)
	assert.True(t, body.Checks[0].IsOK)
	assert.False(t, body.Checks[1].IsOK)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	router := newTestRouter(t, HealthDependencies{})

	recorder := serve(router, http.MethodGet, "/api/unknown")
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "API endpoint not found", body["error"])
}

func TestMountsAndMetrics(t *testing.T) {
	router := newTestRouter(t, HealthDependencies{})

	assert.Equal(t, http.StatusTeapot, serve(router, http.MethodGet, "/api/tasks").Code)

	recorder := serve(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "tasktrack_http_requests_total")
}

func TestPreflight(t *testing.T) {
	router := newTestRouter(t, HealthDependencies{})

	request := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
	request.Header.Set("Origin", "http://localhost:5173")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
}
