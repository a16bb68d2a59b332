package oracle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// ResolutionsTotal tracks resolution attempts by domain and outcome.
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_engine_resolutions_total",
		Help: "Total resolution attempts, by domain and outcome",
	}, []string{"domain", "outcome"})

	// ResolutionDurationSeconds tracks full resolution attempt latency.
	ResolutionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oracle_engine_resolution_duration_seconds",
		Help:    "Duration of full resolution attempts",
		Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
	})
)
