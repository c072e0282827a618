package server

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "mcp-mealdb/internal/errors"
)

const (
	outcomeOK          = "ok"
	outcomeUnknownTool = "unknown_tool"
	outcomeError       = "error"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealdb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealdb_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mealdb_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Tool metrics
	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealdb_tool_calls_total",
			Help: "Total number of tool calls by tool and outcome",
		},
		[]string{"tool", "outcome"},
	)

	panicRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mealdb_panic_recoveries_total",
			Help: "Total number of panics recovered in HTTP handlers",
		},
	)
)

// toolOutcome labels a failed call by its error kind.
func toolOutcome(err error) string {
	kind := apperrors.KindOf(err)
	if kind == "" {
		return outcomeError
	}
	return strings.ToLower(string(kind))
}
