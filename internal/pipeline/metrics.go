package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// TasksTotal counts completed pipeline tasks by result.
	TasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_pipeline_tasks_total",
		Help: "Total completed pipeline tasks, by result",
	}, []string{"result"})

	// DedupedTotal counts market events suppressed by the TTL dedup cache.
	DedupedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oracle_pipeline_deduped_total",
		Help: "Total market events suppressed as recently handled",
	})

	// TaskDurationSeconds tracks end-to-end per-market processing latency.
	TaskDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oracle_pipeline_task_duration_seconds",
		Help:    "Duration of end-to-end market processing",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
)
