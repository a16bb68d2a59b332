package oracle

import (
	"context"
	"testing"

	"github.com/predico/oracle-pipeline/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClassifier struct {
	domain types.Domain
}

func (s *stubClassifier) Classify(ctx context.Context, question string) types.Classification {
	return types.Classification{Domain: s.domain}
}

type stubExtractor struct {
	bases []string
}

func (s *stubExtractor) Extract(ctx context.Context, question string) []string {
	return s.bases
}

type stubQuotes struct {
	quotes []types.PriceQuote
	calls  int
}

func (s *stubQuotes) FetchQuotes(ctx context.Context, bases []string) []types.PriceQuote {
	s.calls++
	return s.quotes
}

type stubFinancial struct {
	decision *types.ResolutionDecision
	quotes   []types.PriceQuote
}

func (s *stubFinancial) Reason(ctx context.Context, question string, quotes []types.PriceQuote) *types.ResolutionDecision {
	s.quotes = quotes
	return s.decision
}

type stubEvents struct {
	decision *types.ResolutionDecision
}

func (s *stubEvents) Reason(ctx context.Context, question string) *types.ResolutionDecision {
	return s.decision
}

func newTestEngine(domain types.Domain, bases []string, financial *types.ResolutionDecision, events *types.ResolutionDecision) (*Engine, *stubQuotes) {
	quotes := &stubQuotes{quotes: []types.PriceQuote{{Source: types.SourcePyth, Base: "BTC", Price: 118500}}}
	engine := New(&Config{
		Classifier: &stubClassifier{domain: domain},
		Extractor:  &stubExtractor{bases: bases},
		Quotes:     quotes,
		Financial:  &stubFinancial{decision: financial},
		Events:     &stubEvents{decision: events},
		Logger:     zap.NewNop(),
	})
	return engine, quotes
}

func TestEngine_Resolve_UnknownDomain(t *testing.T) {
	engine, quotes := newTestEngine(types.DomainUnknown, nil, nil, nil)

	outcome := engine.Resolve(context.Background(), "Is this question even resolvable?")

	assert.True(t, outcome.Abstained)
	assert.Equal(t, types.DomainUnknown, outcome.Domain)
	require.NotNil(t, outcome.Decision)
	assert.False(t, outcome.Decision.Answer)
	assert.InDelta(t, 0.2, outcome.Decision.Confidence, 1e-9)
	assert.Equal(t, 0, quotes.calls)
}

func TestEngine_Resolve_FinancialNoEntities(t *testing.T) {
	engine, quotes := newTestEngine(types.DomainFinancial, nil, nil, nil)

	outcome := engine.Resolve(context.Background(), "Will the price of gold double?")

	assert.True(t, outcome.Abstained)
	assert.Equal(t, types.DomainFinancial, outcome.Domain)
	require.NotNil(t, outcome.Decision)
	assert.False(t, outcome.Decision.Answer)
	assert.InDelta(t, 0.3, outcome.Decision.Confidence, 1e-9)

	// No entities means no price provider call at all.
	assert.Equal(t, 0, quotes.calls)
}

func TestEngine_Resolve_FinancialHappyPath(t *testing.T) {
	decision := &types.ResolutionDecision{Answer: true, Confidence: 0.9, Explanation: "above threshold"}
	engine, quotes := newTestEngine(types.DomainFinancial, []string{"BTC"}, decision, nil)

	outcome := engine.Resolve(context.Background(), "Will BTC close above $110k?")

	assert.False(t, outcome.Abstained)
	assert.Equal(t, types.DomainFinancial, outcome.Domain)
	require.NotNil(t, outcome.Decision)
	assert.True(t, outcome.Decision.Answer)
	assert.Equal(t, 1, quotes.calls)
}

func TestEngine_Resolve_FinancialMalformedVerdict(t *testing.T) {
	engine, _ := newTestEngine(types.DomainFinancial, []string{"BTC"}, nil, nil)

	outcome := engine.Resolve(context.Background(), "Will BTC close above $110k?")

	assert.True(t, outcome.Abstained)
	assert.Nil(t, outcome.Decision)
}

func TestEngine_Resolve_EventHappyPath(t *testing.T) {
	decision := &types.ResolutionDecision{Answer: false, Confidence: 0.95, Explanation: "lost 0-1"}
	engine, quotes := newTestEngine(types.DomainEvent, nil, nil, decision)

	outcome := engine.Resolve(context.Background(), "Did River Plate win the derby?")

	assert.False(t, outcome.Abstained)
	assert.Equal(t, types.DomainEvent, outcome.Domain)
	require.NotNil(t, outcome.Decision)
	assert.False(t, outcome.Decision.Answer)

	// Event questions never touch the price providers.
	assert.Equal(t, 0, quotes.calls)
}

func TestEngine_Resolve_EventMalformedVerdict(t *testing.T) {
	engine, _ := newTestEngine(types.DomainEvent, nil, nil, nil)

	outcome := engine.Resolve(context.Background(), "Did River Plate win the derby?")

	assert.True(t, outcome.Abstained)
	assert.Nil(t, outcome.Decision)
}
