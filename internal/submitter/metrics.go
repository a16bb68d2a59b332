package submitter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// ResultsTotal counts processing attempts by terminal result.
	ResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_submitter_results_total",
		Help: "Total market processing attempts, by result",
	}, []string{"result"})

	// ProposalGasUsed tracks gas used by mined proposal transactions.
	ProposalGasUsed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "oracle_submitter_proposal_gas_used",
		Help:    "Gas used by mined outcome proposal transactions",
		Buckets: []float64{50000, 100000, 150000, 200000, 300000, 500000},
	})
)
