// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsbrief_api_request_duration_seconds",
			Help:    "Total time taken for requests in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 60, 120},
		},
		[]string{"intent"},
	)

	UpstreamAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsbrief_api_upstream_attempts_total",
			Help: "Outbound attempts to the upstream model by outcome",
		},
		[]string{"outcome"},
	)

	RetriesExhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsbrief_api_retries_exhausted_total",
			Help: "Requests that failed every retry attempt",
		},
		[]string{"from"},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsbrief_api_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)
)
