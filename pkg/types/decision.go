package types

import "fmt"

// Domain is the category a market question resolves under.
type Domain string

const (
	// DomainFinancial covers price-threshold questions about known assets.
	DomainFinancial Domain = "financial"
	// DomainEvent covers event-based questions (match results, standings).
	DomainEvent Domain = "event"
	// DomainUnknown means the classifier could not place the question.
	DomainUnknown Domain = "unknown"
)

// Classification is the result of a single classification pass. It is
// recomputed per resolution attempt, never cached: the question text is
// immutable per market, so the result is deterministic enough to recompute.
type Classification struct {
	Domain Domain
}

// ResolutionDecision is the terminal artifact handed to the outcome
// submitter. It is constructed fresh per resolution attempt and never
// persisted; the transaction receipt is the durable record.
type ResolutionDecision struct {
	Answer      bool
	Confidence  float64
	Explanation string
}

// Validate checks the decision's field constraints.
func (d *ResolutionDecision) Validate() error {
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("confidence %f out of [0,1]", d.Confidence)
	}
	return nil
}

// ClampConfidence forces the confidence into [0,1]. Reasoning output is
// untrusted; a parseable verdict with an out-of-range score is kept but
// bounded rather than discarded.
func (d *ResolutionDecision) ClampConfidence() {
	if d.Confidence < 0 {
		d.Confidence = 0
	}
	if d.Confidence > 1 {
		d.Confidence = 1
	}
}
