// Package metrics exposes Prometheus instrumentation for pipeline runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finwatch_records_loaded_total",
			Help: "Total number of records loaded into the store",
		},
		[]string{"entity"},
	)

	RecordErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finwatch_record_errors_total",
			Help: "Total number of records dropped or rejected",
		},
		[]string{"entity"},
	)

	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finwatch_pipeline_runs_total",
			Help: "Total number of pipeline runs by terminal status",
		},
		[]string{"status"},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "finwatch_pipeline_duration_seconds",
			Help:    "Wall-clock duration of pipeline runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	SourcesUnavailable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finwatch_sources_unavailable_total",
			Help: "Total number of runs where a CSV source was missing or unreadable",
		},
		[]string{"source"},
	)
)
