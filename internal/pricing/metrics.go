package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// QuotesFetchedTotal tracks quotes fetched per provider.
	QuotesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_pricing_quotes_total",
		Help: "Total number of price quotes fetched, by provider",
	}, []string{"source"})

	// ProviderErrorsTotal tracks provider request failures.
	ProviderErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_pricing_provider_errors_total",
		Help: "Total number of price provider request failures, by provider",
	}, []string{"source"})

	// FetchDurationSeconds tracks the latency of a full multi-provider fetch.
	FetchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oracle_pricing_fetch_duration_seconds",
		Help:    "Duration of combined price fetches across providers",
		Buckets: prometheus.DefBuckets,
	})
)
