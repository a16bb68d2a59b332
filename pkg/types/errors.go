package types

import "fmt"

// SubmitError represents a failed on-chain proposal write. It is surfaced to
// the operator and left for a future trigger to retry; the pipeline never
// resubmits with mutated parameters.
type SubmitError struct {
	MarketID uint64
	Stage    string // "send", "confirm", "revert"
	TxHash   string
	Err      error
}

func (e *SubmitError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("market %d: proposal %s failed at %s: %v", e.MarketID, e.TxHash, e.Stage, e.Err)
	}
	return fmt.Sprintf("market %d: proposal failed at %s: %v", e.MarketID, e.Stage, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Submission stages.
const (
	SubmitStageSend    = "send"
	SubmitStageConfirm = "confirm"
	SubmitStageRevert  = "revert"
)
