package mealdb

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK           = "ok"
	outcomeStatusError  = "status_error"
	outcomeNetworkError = "network_error"
	outcomePayloadError = "payload_error"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealdb_upstream_requests_total",
			Help: "Total number of upstream API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealdb_upstream_request_duration_seconds",
			Help:    "Upstream API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func observeUpstream(endpoint, outcome string, start time.Time) {
	upstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	upstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
