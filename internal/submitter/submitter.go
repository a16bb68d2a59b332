package submitter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/predico/oracle-pipeline/internal/oracle"
	"github.com/predico/oracle-pipeline/internal/storage"
	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Result reports how a market's processing attempt ended.
type Result int

const (
	// ResultSkipped means the market was not awaiting a proposal.
	ResultSkipped Result = iota
	// ResultAbstained means the pipeline withheld a verdict; nothing was
	// written on-chain.
	ResultAbstained
	// ResultSubmitted means the outcome proposal transaction was mined.
	ResultSubmitted
)

func (r Result) String() string {
	switch r {
	case ResultSkipped:
		return "skipped"
	case ResultAbstained:
		return "abstained"
	case ResultSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Resolver produces a resolution outcome for a market question.
type Resolver interface {
	Resolve(ctx context.Context, question string) *oracle.Outcome
}

// Submitter drives a market from closed-event to on-chain proposal. It is
// idempotent: the on-chain status gate is authoritative, checked both before
// the expensive resolution work and again immediately before the write, and
// concurrent attempts for the same market collapse into one.
type Submitter struct {
	contract        Contract
	resolver        Resolver
	store           storage.Storage
	evidenceBaseURL string
	logger          *zap.Logger
	group           singleflight.Group
}

// Config holds submitter dependencies.
type Config struct {
	Contract        Contract
	Resolver        Resolver
	Storage         storage.Storage
	EvidenceBaseURL string
	Logger          *zap.Logger
}

// New creates a new outcome submitter.
func New(cfg *Config) *Submitter {
	return &Submitter{
		contract:        cfg.Contract,
		resolver:        cfg.Resolver,
		store:           cfg.Storage,
		evidenceBaseURL: cfg.EvidenceBaseURL,
		logger:          cfg.Logger,
	}
}

// Process resolves and, when the verdict allows it, proposes the outcome for
// one market. Concurrent calls for the same market id share a single
// execution.
func (s *Submitter) Process(ctx context.Context, ref types.MarketRef) (Result, error) {
	v, err, _ := s.group.Do(strconv.FormatUint(ref.ID, 10), func() (interface{}, error) {
		return s.process(ctx, ref.ID)
	})

	result, ok := v.(Result)
	if !ok {
		result = ResultSkipped
	}

	ResultsTotal.WithLabelValues(result.String()).Inc()

	return result, err
}

func (s *Submitter) process(ctx context.Context, id uint64) (Result, error) {
	market, err := s.contract.Market(ctx, id)
	if err != nil {
		return ResultSkipped, fmt.Errorf("read market %d: %w", id, err)
	}

	if !market.Status.AwaitingProposal() {
		s.logger.Info("market-not-awaiting-proposal",
			zap.Uint64("market-id", id),
			zap.String("status", market.Status.String()))
		return ResultSkipped, nil
	}

	outcome := s.resolver.Resolve(ctx, market.Question)

	if outcome.Abstained {
		s.logger.Warn("resolution-abstained",
			zap.Uint64("market-id", id),
			zap.String("domain", string(outcome.Domain)))
		s.record(ctx, market, outcome, "", "")
		return ResultAbstained, nil
	}

	// The resolution work above takes tens of seconds; another actor may
	// have proposed in the meantime. Re-check right before the write.
	market, err = s.contract.Market(ctx, id)
	if err != nil {
		return ResultSkipped, fmt.Errorf("re-read market %d: %w", id, err)
	}
	if !market.Status.AwaitingProposal() {
		s.logger.Info("market-status-changed-before-write",
			zap.Uint64("market-id", id),
			zap.String("status", market.Status.String()))
		return ResultSkipped, nil
	}

	evidenceURI := fmt.Sprintf("%s/markets/%d", s.evidenceBaseURL, id)

	receipt, err := s.contract.ProposeOutcome(ctx, id, outcome.Decision.Answer, evidenceURI)
	if err != nil {
		return ResultSkipped, &types.SubmitError{
			MarketID: id,
			Stage:    types.SubmitStageSend,
			Err:      err,
		}
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return ResultSkipped, &types.SubmitError{
			MarketID: id,
			Stage:    types.SubmitStageRevert,
			TxHash:   receipt.TxHash.Hex(),
			Err:      fmt.Errorf("proposal transaction reverted"),
		}
	}

	ProposalGasUsed.Observe(float64(receipt.GasUsed))

	s.logger.Info("outcome-proposed",
		zap.Uint64("market-id", id),
		zap.Bool("answer", outcome.Decision.Answer),
		zap.Float64("confidence", outcome.Decision.Confidence),
		zap.String("tx-hash", receipt.TxHash.Hex()))

	s.record(ctx, market, outcome, receipt.TxHash.Hex(), evidenceURI)

	return ResultSubmitted, nil
}

// record persists the audit record. Storage failures never fail the attempt;
// the on-chain state is authoritative.
func (s *Submitter) record(ctx context.Context, market *types.MarketRecord, outcome *oracle.Outcome, txHash, evidenceURI string) {
	rec := &storage.SubmissionRecord{
		ID:          uuid.NewString(),
		MarketID:    market.ID,
		Question:    market.Question,
		Domain:      outcome.Domain,
		Abstained:   outcome.Abstained,
		TxHash:      txHash,
		EvidenceURI: evidenceURI,
		SubmittedAt: time.Now().UTC(),
	}
	if outcome.Decision != nil {
		rec.Answer = outcome.Decision.Answer
		rec.Confidence = outcome.Decision.Confidence
		rec.Explanation = outcome.Decision.Explanation
	}

	err := s.store.RecordSubmission(ctx, rec)
	if err != nil {
		s.logger.Error("submission-record-failed",
			zap.Uint64("market-id", market.ID),
			zap.Error(err))
	}
}
