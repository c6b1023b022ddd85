// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and the domain
handlers of one service into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It is shared by cmd/auth and cmd/tasks; each mounts its own route group.
  - Only this package and cmd/* are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/tasktrack/internal/platform/apperr"
	"github.com/taibuivan/tasktrack/internal/platform/config"
	"github.com/taibuivan/tasktrack/internal/platform/constants"
	"github.com/taibuivan/tasktrack/internal/platform/middleware"
	"github.com/taibuivan/tasktrack/internal/platform/respond"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Mount is one domain route group.
type Mount struct {
	// Prefix is the path the group is mounted at, e.g. "/api/tasks".
	Prefix string

	// Handler serves every path below Prefix.
	Handler http.Handler
}

// InstrumentFunc wraps the router with request metrics.
type InstrumentFunc func(http.Handler) http.Handler

// Handlers groups everything a service exposes over HTTP.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when every dependency answers.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus exposition format on /metrics. Optional.
	Metrics http.Handler

	// Instrument records request metrics. Optional.
	Instrument InstrumentFunc

	// Mounts are the domain route groups of the service.
	Mounts []Mount
}

// # Server Initialization

// NewRouter builds the chi router with the full middleware chain and registers
// all route groups. Exposed separately from [NewServer] for handler tests.
func NewRouter(context context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery)
	if h.Instrument != nil {
		r.Use(h.Instrument)
	}
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.NewRateLimiter(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst).Middleware)
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	// # Application API
	for _, mount := range h.Mounts {
		r.Mount(mount.Prefix, mount.Handler)
	}

	r.NotFound(func(writer http.ResponseWriter, request *http.Request) {
		respond.Error(writer, request, apperr.NotFound("API endpoint"))
	})

	return r
}

// NewServer wraps [NewRouter] in an [http.Server] listening on cfg.ServerPort.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := NewRouter(context, cfg, log, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
