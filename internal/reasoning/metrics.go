package reasoning

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// RequestDurationSeconds tracks completion request latency.
	RequestDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oracle_reasoning_request_duration_seconds",
		Help:    "Duration of reasoning service requests",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
	})

	// RequestErrorsTotal tracks completion request failures.
	RequestErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oracle_reasoning_request_errors_total",
		Help: "Total number of reasoning service request failures",
	})

	// ParseFailuresTotal tracks unparseable structured outputs per call site.
	ParseFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_reasoning_parse_failures_total",
		Help: "Total number of malformed structured outputs, by call site",
	}, []string{"kind"})

	// TokensTotal tracks token consumption by direction.
	TokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_reasoning_tokens_total",
		Help: "Total tokens consumed by the reasoning service, by direction",
	}, []string{"direction"})
)
