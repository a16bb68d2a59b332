package storage

import (
	"context"
	"time"

	"github.com/predico/oracle-pipeline/pkg/types"
)

// SubmissionRecord is the audit trail entry for one resolution attempt,
// whether it ended in an on-chain proposal or an abstention.
type SubmissionRecord struct {
	ID          string
	MarketID    uint64
	Question    string
	Domain      types.Domain
	Answer      bool
	Confidence  float64
	Explanation string
	Abstained   bool
	TxHash      string
	EvidenceURI string
	SubmittedAt time.Time
}

// Storage is the interface for persisting resolution audit records.
type Storage interface {
	// RecordSubmission stores one resolution attempt record.
	RecordSubmission(ctx context.Context, rec *SubmissionRecord) error

	// Close closes the storage connection.
	Close() error
}
