// Package metrics defines and registers all custom Prometheus metrics for the
// account service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto, and exposed by the router on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Account metrics ───────────────────────────────────────────────────────────

// OperationsTotal counts account service operations.
// Labels:
//   - operation: create, list, update_role, delete, find
//   - result: ok, not_found, validation, conflict, error
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of account operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthGateDecisionsTotal counts authorization gate outcomes.
// Label:
//   - outcome: authenticated, no_token, invalid_token, extraction_failed
var AuthGateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_gate_decisions_total",
		Help:      "Total number of requests seen by the authorization gate, by outcome.",
	},
	[]string{"outcome"},
)

// ── Worker pool metrics ───────────────────────────────────────────────────────

// WorkerQueueDepth tracks the number of tasks waiting in the worker pool.
var WorkerQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "worker_queue_depth",
		Help:      "Current number of tasks pending in the worker pool.",
	},
)

// TaskDuration measures how long a pooled task runs once a worker picks it up.
// Label:
//   - result: "ok" or "error"
var TaskDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Duration of worker pool tasks from dequeue to completion.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts HTTP requests by method, route and status.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency by method and route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)
