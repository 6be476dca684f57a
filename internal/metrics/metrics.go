// Package metrics holds the Prometheus collectors for narration.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lectern"

var (
	// GenerationAttempts counts backend calls by backend and result
	// (success, blank, auth, rate_limit, error).
	GenerationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "attempts_total",
			Help:      "Total number of narration generation attempts",
		},
		[]string{"backend", "result"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Backend call duration in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"backend"},
	)

	// SlideOutcomes counts terminal slide states (success, fallback, passthrough, skipped).
	SlideOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "slides",
			Name:      "outcomes_total",
			Help:      "Total number of narrated slides by outcome",
		},
		[]string{"outcome"},
	)

	PassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "total",
			Help:      "Total number of narration passes",
		},
		[]string{"style", "level", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of web UI requests",
		},
		[]string{"method", "route", "status"},
	)
)
