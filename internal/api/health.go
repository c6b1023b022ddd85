// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/tasktrack/internal/platform/constants"
	"github.com/taibuivan/tasktrack/internal/platform/respond"
)

// readinessTimeout bounds every dependency check of /ready.
const readinessTimeout = 2 * time.Second

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func(ctx context.Context) error

	// CheckRedis pings the client shared by the registry and the cache.
	CheckRedis func(ctx context.Context) error
}

type healthHandler struct {
	service      string
	dependencies HealthDependencies
	logger       *slog.Logger
	now          func() time.Time
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs for one service.
func NewHealthHandlers(service string, deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{service: service, dependencies: deps, logger: logger, now: time.Now}
	return handler.liveness, handler.readiness
}

type livenessResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// liveness handles GET /health. It never touches a dependency.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, livenessResponse{
		Status:    "ok",
		Service:   handler.service,
		Timestamp: handler.now().UTC(),
	})
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness handles GET /ready.
//
// A Redis outage still reports 503 here even though requests keep being served
// in degraded mode; orchestrators decide what to do with that.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	results := make([]checkResult, 0, 2)
	isSystemReady := true

	check := func(name string, probe func(ctx context.Context) error) {
		if probe == nil {
			return
		}
		result := checkResult{Name: name, IsOK: true}
		if err := probe(ctx); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	check("postgres", handler.dependencies.CheckDatabase)
	check("redis", handler.dependencies.CheckRedis)

	status, httpStatus := "ready", http.StatusOK
	if !isSystemReady {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, map[string]any{
		constants.FieldStatus:  status,
		constants.FieldService: handler.service,
		constants.FieldChecks:  results,
	})
}
