package testutil

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/predico/oracle-pipeline/internal/storage"
	"github.com/predico/oracle-pipeline/pkg/types"
)

// MockContract is an in-memory prediction market contract for testing.
type MockContract struct {
	mu       sync.Mutex
	Markets  map[uint64]*types.MarketRecord
	Proposed []ProposedOutcome

	// MarketErr, when set, fails all Market reads.
	MarketErr error
	// ProposeErr, when set, fails all proposals.
	ProposeErr error
	// RevertProposal makes proposal receipts come back reverted.
	RevertProposal bool
}

// ProposedOutcome records one ProposeOutcome call.
type ProposedOutcome struct {
	MarketID    uint64
	Answer      bool
	EvidenceURI string
}

// NewMockContract creates a mock contract holding the given markets.
func NewMockContract(markets ...*types.MarketRecord) *MockContract {
	m := &MockContract{Markets: make(map[uint64]*types.MarketRecord)}
	for _, mk := range markets {
		m.Markets[mk.ID] = mk
	}
	return m
}

// Market returns a copy of the stored market record.
func (m *MockContract) Market(ctx context.Context, id uint64) (*types.MarketRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.MarketErr != nil {
		return nil, m.MarketErr
	}

	mk, ok := m.Markets[id]
	if !ok {
		return nil, context.DeadlineExceeded
	}

	cp := *mk
	return &cp, nil
}

// ProposeOutcome records the proposal and flips the market to proposed, so a
// second attempt sees the status gate shut.
func (m *MockContract) ProposeOutcome(ctx context.Context, id uint64, answer bool, evidenceURI string) (*ethtypes.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ProposeErr != nil {
		return nil, m.ProposeErr
	}

	m.Proposed = append(m.Proposed, ProposedOutcome{
		MarketID:    id,
		Answer:      answer,
		EvidenceURI: evidenceURI,
	})

	if mk, ok := m.Markets[id]; ok {
		mk.Status = types.StatusProposed
	}

	status := ethtypes.ReceiptStatusSuccessful
	if m.RevertProposal {
		status = ethtypes.ReceiptStatusFailed
	}

	return &ethtypes.Receipt{
		Status:  status,
		TxHash:  common.HexToHash("0xabc123"),
		GasUsed: 120000,
	}, nil
}

// ProposalCount returns how many proposals were recorded.
func (m *MockContract) ProposalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Proposed)
}

// MockStorage is an in-memory storage implementation for testing.
type MockStorage struct {
	mu      sync.Mutex
	Records []*storage.SubmissionRecord

	// RecordErr, when set, fails all writes.
	RecordErr error
}

// NewMockStorage creates a new mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

// RecordSubmission stores a record in memory.
func (m *MockStorage) RecordSubmission(ctx context.Context, rec *storage.SubmissionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RecordErr != nil {
		return m.RecordErr
	}

	m.Records = append(m.Records, rec)
	return nil
}

// RecordCount returns how many records were stored.
func (m *MockStorage) RecordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}

// Close is a no-op.
func (m *MockStorage) Close() error {
	return nil
}
