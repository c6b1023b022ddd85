// Copyright (c) 2026 Tasktrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics collects and exposes Prometheus metrics for both services.

Every metric is owned by a [Collector] that registers itself on an explicit
[prometheus.Registerer], so tests can use a private registry and no package
level state is shared between servers.

Series:

  - tasktrack_gate_decisions_total{outcome}: Session Gate outcomes.
  - tasktrack_cache_lookups_total{result}: Task cache hit / miss / error.
  - tasktrack_dependency_errors_total{dependency}: store, cache and registry failures.
  - tasktrack_breaker_state{name}: 0=closed, 1=half-open, 2=open.
  - tasktrack_http_*: request count, latency and in-flight gauge.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the Prometheus implementation used by the services.
type Collector struct {
	service string

	gateDecisions    *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	dependencyErrors *prometheus.CounterVec
	breakerState     *prometheus.GaugeVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// NewCollector creates a Collector for one service and registers it on reg.
func NewCollector(reg prometheus.Registerer, service string) *Collector {
	constLabels := prometheus.Labels{"service": service}

	c := &Collector{
		service: service,
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tasktrack_gate_decisions_total",
			Help:        "Session Gate decisions by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tasktrack_cache_lookups_total",
			Help:        "Task list cache lookups by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
		dependencyErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tasktrack_dependency_errors_total",
			Help:        "Failed calls to external dependencies",
			ConstLabels: constLabels,
		}, []string{"dependency"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "tasktrack_breaker_state",
			Help:        "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			ConstLabels: constLabels,
		}, []string{"name"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "tasktrack_http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "tasktrack_http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "tasktrack_http_requests_in_flight",
			Help:        "Current number of HTTP requests being served",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		c.gateDecisions,
		c.cacheLookups,
		c.dependencyErrors,
		c.breakerState,
		c.httpRequests,
		c.httpDuration,
		c.httpInFlight,
	)

	return c
}

// RecordGateDecision counts one Session Gate outcome.
func (c *Collector) RecordGateDecision(outcome string) {
	c.gateDecisions.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup counts one task cache lookup ("hit", "miss" or "error").
func (c *Collector) RecordCacheLookup(result string) {
	c.cacheLookups.WithLabelValues(result).Inc()
}

// RecordDependencyError counts a failed dependency call.
func (c *Collector) RecordDependencyError(dependency string) {
	c.dependencyErrors.WithLabelValues(dependency).Inc()
}

// RecordBreakerState publishes the state of a named circuit breaker.
// The state strings are those of gobreaker's State.String.
func (c *Collector) RecordBreakerState(name, state string) {
	value := -1.0
	switch state {
	case "closed":
		value = 0
	case "half-open":
		value = 1
	case "open":
		value = 2
	}
	c.breakerState.WithLabelValues(name).Set(value)
}

// # HTTP Instrumentation

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}

// Middleware records request count, latency and in-flight requests.
//
// The path label is the chi route pattern, so ids never explode cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()

		c.httpInFlight.Inc()
		defer c.httpInFlight.Dec()

		recorder := &statusWriter{ResponseWriter: writer, status: http.StatusOK}
		next.ServeHTTP(recorder, request)

		routePattern := "unknown"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil && routeContext.RoutePattern() != "" {
			routePattern = routeContext.RoutePattern()
		}

		status := strconv.Itoa(recorder.status)
		c.httpRequests.WithLabelValues(request.Method, routePattern, status).Inc()
		c.httpDuration.WithLabelValues(request.Method, routePattern, status).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the HTTP handler for Prometheus scraping.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
