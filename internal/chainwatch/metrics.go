package chainwatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// EventsEmittedTotal counts market-closed events forwarded downstream.
	EventsEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oracle_chainwatch_events_emitted_total",
		Help: "Total market-closed events emitted to the pipeline",
	})

	// BackfillChunksTotal counts successfully processed backfill chunks.
	BackfillChunksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oracle_chainwatch_backfill_chunks_total",
		Help: "Total backfill chunks processed successfully",
	})

	// BackfillChunkErrorsTotal counts chunks skipped after exhausting retries.
	BackfillChunkErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oracle_chainwatch_backfill_chunk_errors_total",
		Help: "Total backfill chunks skipped after exhausting the retry budget",
	})

	// ResubscribesTotal counts live subscription re-establishments.
	ResubscribesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oracle_chainwatch_resubscribes_total",
		Help: "Total live log subscription reconnect attempts",
	})
)
