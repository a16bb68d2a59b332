package types

import (
	"fmt"
	"math/big"
	"time"
)

// MarketRef identifies a market under resolution. The question may be empty
// when the ref originates from a chain event; the submitter fills it from the
// contract record before resolving.
type MarketRef struct {
	ID       uint64
	Question string
}

// MarketStatus mirrors the on-chain market lifecycle enum. This subsystem
// only ever reads it; the single write transition it triggers is
// Closed -> Proposed via proposeAIOutcome.
type MarketStatus uint8

const (
	StatusOpen MarketStatus = iota
	StatusClosed
	StatusResolving
	StatusProposed
	StatusResolved
)

// String returns the human-readable status name.
func (s MarketStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	case StatusResolving:
		return "resolving"
	case StatusProposed:
		return "proposed"
	case StatusResolved:
		return "resolved"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// AwaitingProposal reports whether the market is waiting for an AI outcome.
// Submission is permitted only in this state.
func (s MarketStatus) AwaitingProposal() bool {
	return s == StatusClosed
}

// MarketRecord is the on-chain market record as returned by the markets(id)
// getter. Pool fields are raw stake amounts and are informational only.
type MarketRecord struct {
	ID       uint64
	Question string
	EndTime  time.Time
	Status   MarketStatus
	YesPool  *big.Int
	NoPool   *big.Int
}

// Ref returns the MarketRef for this record.
func (m *MarketRecord) Ref() MarketRef {
	return MarketRef{ID: m.ID, Question: m.Question}
}
