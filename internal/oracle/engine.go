package oracle

import (
	"context"
	"time"

	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
)

// Classifier categorizes a market question into a resolution domain.
type Classifier interface {
	Classify(ctx context.Context, question string) types.Classification
}

// Extractor maps a question to known asset bases.
type Extractor interface {
	Extract(ctx context.Context, question string) []string
}

// QuoteFetcher fetches multi-provider quotes for a set of bases.
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, bases []string) []types.PriceQuote
}

// FinancialReasoner produces a verdict from a question plus price evidence.
// A nil result means the verdict was malformed and the engine must abstain.
type FinancialReasoner interface {
	Reason(ctx context.Context, question string, quotes []types.PriceQuote) *types.ResolutionDecision
}

// EventReasoner produces a web-grounded verdict from the question alone.
type EventReasoner interface {
	Reason(ctx context.Context, question string) *types.ResolutionDecision
}

// Outcome is the engine's normalized result. Decision carries the verdict
// (or a fixed low-confidence default on the abstention paths, for logging
// and audit); Abstained reports whether the pipeline withheld a verdict.
// An abstained outcome is never written on-chain.
type Outcome struct {
	Domain    types.Domain
	Decision  *types.ResolutionDecision
	Abstained bool
}

// Engine routes a question to the financial or event-based resolution path
// and normalizes their outputs into one decision contract. A single pass is
// authoritative per attempt: no retries of classification, extraction, or
// reasoning happen here.
type Engine struct {
	classifier Classifier
	extractor  Extractor
	quotes     QuoteFetcher
	financial  FinancialReasoner
	events     EventReasoner
	logger     *zap.Logger
}

// Config holds engine dependencies.
type Config struct {
	Classifier Classifier
	Extractor  Extractor
	Quotes     QuoteFetcher
	Financial  FinancialReasoner
	Events     EventReasoner
	Logger     *zap.Logger
}

// New creates a new resolution decision engine.
func New(cfg *Config) *Engine {
	return &Engine{
		classifier: cfg.Classifier,
		extractor:  cfg.Extractor,
		quotes:     cfg.Quotes,
		financial:  cfg.Financial,
		events:     cfg.Events,
		logger:     cfg.Logger,
	}
}

// Resolve runs one full resolution attempt for a question.
func (e *Engine) Resolve(ctx context.Context, question string) *Outcome {
	start := time.Now()

	classification := e.classifier.Classify(ctx, question)

	var outcome *Outcome
	switch classification.Domain {
	case types.DomainFinancial:
		outcome = e.resolveFinancial(ctx, question)
	case types.DomainEvent:
		outcome = e.resolveEvent(ctx, question)
	default:
		outcome = &Outcome{
			Domain: types.DomainUnknown,
			Decision: &types.ResolutionDecision{
				Answer:      false,
				Confidence:  0.2,
				Explanation: "could not classify the question",
			},
			Abstained: true,
		}
	}

	ResolutionsTotal.WithLabelValues(string(outcome.Domain), outcomeLabel(outcome)).Inc()
	ResolutionDurationSeconds.Observe(time.Since(start).Seconds())

	e.logger.Info("resolution-complete",
		zap.String("domain", string(outcome.Domain)),
		zap.Bool("abstained", outcome.Abstained),
		zap.Duration("duration", time.Since(start)))

	return outcome
}

// resolveFinancial extracts entities, gathers quotes, and asks the financial
// reasoner. Zero extracted entities skips the evidence step entirely: no
// price-provider call is made and the fixed low-confidence default applies.
func (e *Engine) resolveFinancial(ctx context.Context, question string) *Outcome {
	bases := e.extractor.Extract(ctx, question)
	if len(bases) == 0 {
		return &Outcome{
			Domain: types.DomainFinancial,
			Decision: &types.ResolutionDecision{
				Answer:      false,
				Confidence:  0.3,
				Explanation: "no matching entities found in question",
			},
			Abstained: true,
		}
	}

	quotes := e.quotes.FetchQuotes(ctx, bases)

	decision := e.financial.Reason(ctx, question, quotes)
	if decision == nil {
		return &Outcome{Domain: types.DomainFinancial, Abstained: true}
	}

	return &Outcome{Domain: types.DomainFinancial, Decision: decision}
}

func (e *Engine) resolveEvent(ctx context.Context, question string) *Outcome {
	decision := e.events.Reason(ctx, question)
	if decision == nil {
		return &Outcome{Domain: types.DomainEvent, Abstained: true}
	}

	return &Outcome{Domain: types.DomainEvent, Decision: decision}
}

func outcomeLabel(o *Outcome) string {
	if o.Abstained {
		return "abstained"
	}
	return "decided"
}
