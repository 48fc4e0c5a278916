// Package metrics provides Prometheus metrics collection for the BillEase server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// CommandsTotal tracks dispatched state commands by name and outcome.
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bill_commands_total",
			Help: "Total number of bill state commands dispatched",
		},
		[]string{"command", "outcome"},
	)

	// ExtractionsTotal tracks bill photo extraction attempts by outcome.
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bill_extractions_total",
			Help: "Total number of bill extraction attempts",
		},
		[]string{"outcome"},
	)

	// SuggestionsTotal tracks assignment suggestion attempts by outcome.
	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bill_suggestions_total",
			Help: "Total number of assignment suggestion attempts",
		},
		[]string{"outcome"},
	)
)
