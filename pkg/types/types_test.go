package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarketStatus_String(t *testing.T) {
	tests := []struct {
		status   MarketStatus
		expected string
	}{
		{StatusOpen, "open"},
		{StatusClosed, "closed"},
		{StatusResolving, "resolving"},
		{StatusProposed, "proposed"},
		{StatusResolved, "resolved"},
		{MarketStatus(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestMarketStatus_AwaitingProposal(t *testing.T) {
	assert.True(t, StatusClosed.AwaitingProposal())

	for _, status := range []MarketStatus{StatusOpen, StatusResolving, StatusProposed, StatusResolved} {
		assert.False(t, status.AwaitingProposal(), status.String())
	}
}

func TestResolutionDecision_Validate(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		wantErr    bool
	}{
		{name: "zero", confidence: 0, wantErr: false},
		{name: "one", confidence: 1, wantErr: false},
		{name: "mid-range", confidence: 0.55, wantErr: false},
		{name: "negative", confidence: -0.1, wantErr: true},
		{name: "above-one", confidence: 1.2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &ResolutionDecision{Confidence: tt.confidence}
			err := d.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolutionDecision_ClampConfidence(t *testing.T) {
	d := &ResolutionDecision{Confidence: 1.7}
	d.ClampConfidence()
	assert.Equal(t, 1.0, d.Confidence)

	d.Confidence = -0.3
	d.ClampConfidence()
	assert.Equal(t, 0.0, d.Confidence)

	d.Confidence = 0.42
	d.ClampConfidence()
	assert.Equal(t, 0.42, d.Confidence)
}

func TestSubmitError(t *testing.T) {
	inner := errors.New("execution reverted")

	withHash := &SubmitError{MarketID: 42, Stage: SubmitStageRevert, TxHash: "0xabc", Err: inner}
	assert.Contains(t, withHash.Error(), "market 42")
	assert.Contains(t, withHash.Error(), "0xabc")
	assert.Contains(t, withHash.Error(), "revert")
	assert.ErrorIs(t, withHash, inner)

	withoutHash := &SubmitError{MarketID: 7, Stage: SubmitStageSend, Err: inner}
	assert.NotContains(t, withoutHash.Error(), "0x")
	assert.Contains(t, withoutHash.Error(), "send")
}

func TestMarketRecord_Ref(t *testing.T) {
	m := &MarketRecord{ID: 5, Question: "Will it rain?"}
	ref := m.Ref()
	assert.Equal(t, uint64(5), ref.ID)
	assert.Equal(t, "Will it rain?", ref.Question)
}
