package deletion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pipelineOutcomes counts validation runs by outcome kind
	pipelineOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nsportal_delete_validation_outcomes_total",
		Help: "Namespace delete validation runs by outcome",
	}, []string{"outcome"})

	// pipelineDuration tracks end-to-end validation latency
	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nsportal_delete_validation_duration_seconds",
		Help:    "Namespace delete validation run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
	})

	// stageDuration tracks per-stage latency; the async stages dominate
	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nsportal_delete_validation_stage_duration_seconds",
		Help:    "Namespace delete validation stage duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	}, []string{"stage"})

	// deleteActions counts confirmed delete calls by result
	deleteActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nsportal_namespace_delete_total",
		Help: "Confirmed namespace deletions by result",
	}, []string{"result"})
)
