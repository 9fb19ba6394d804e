package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reconengine",
		Name:      "runs_started_total",
		Help:      "Reconciliation runs triggered.",
	})

	RunsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reconengine",
		Name:      "runs_completed_total",
		Help:      "Reconciliation runs finished, by terminal status.",
	}, []string{"status"})

	ResultsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reconengine",
		Name:      "results_emitted_total",
		Help:      "Reconciliation result rows produced, by match status.",
	}, []string{"status"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reconengine",
		Name:      "run_duration_seconds",
		Help:      "End-to-end duration of a reconciliation run.",
		Buckets:   prometheus.DefBuckets,
	})
)
