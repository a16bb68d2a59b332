package reasoning

import (
	"context"
	"fmt"
	"strings"

	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
)

// verdictShape is the strict structured output shared by both evidence
// reasoners. The answer must be a JSON boolean; string answers ("yes",
// "true") fail decoding and count as malformed.
type verdictShape struct {
	Answer      bool    `json:"answer"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

const financialPromptTmpl = `You are a crypto price reasoning agent.

Here are the latest prices from independent sources:

%s

Question: %s

Cross-check agreement between the sources. If they diverge significantly,
lower your confidence; divergence is evidence, not an error. Return STRICT
JSON ONLY:
{
  "answer": true or false,
  "confidence": 0.0-1.0,
  "explanation": "short reasoning comparing the sources"
}`

const eventPromptTmpl = `You are an event outcome oracle.

Question: %q

Use web search to find the official result and ground your verdict in a
specific retrievable fact (final score, standings, announcement). Return
STRICT JSON ONLY:
{
  "answer": true or false,
  "confidence": 0.0-1.0,
  "explanation": "short reasoning based on the searched result"
}`

// FinancialReasoner produces a verdict for price-threshold questions from a
// set of multi-provider quotes.
type FinancialReasoner struct {
	completer Completer
	logger    *zap.Logger
}

// NewFinancialReasoner creates a new financial evidence reasoner.
func NewFinancialReasoner(completer Completer, logger *zap.Logger) *FinancialReasoner {
	return &FinancialReasoner{
		completer: completer,
		logger:    logger,
	}
}

// Reason asks for a verdict grounded in the supplied quotes. A malformed
// response yields nil (abstain), never a best-guess default.
func (r *FinancialReasoner) Reason(ctx context.Context, question string, quotes []types.PriceQuote) *types.ResolutionDecision {
	prompt := fmt.Sprintf(financialPromptTmpl, formatQuotes(quotes), question)

	out, err := r.completer.Complete(ctx, Request{
		Prompt:    prompt,
		MaxTokens: 512,
	})
	if err != nil {
		r.logger.Warn("financial-reasoning-failed", zap.Error(err))
		return nil
	}

	return parseVerdict(out, "financial", r.logger)
}

// EventReasoner produces a verdict for event-based questions using a single
// web-search-augmented reasoning call. There is no structural cross-source
// corroboration on this path; that asymmetry with the financial path is a
// known reliability gap, preserved deliberately.
type EventReasoner struct {
	completer Completer
	logger    *zap.Logger
}

// NewEventReasoner creates a new event evidence reasoner.
func NewEventReasoner(completer Completer, logger *zap.Logger) *EventReasoner {
	return &EventReasoner{
		completer: completer,
		logger:    logger,
	}
}

// Reason asks for a web-grounded verdict. A malformed response yields nil.
func (r *EventReasoner) Reason(ctx context.Context, question string) *types.ResolutionDecision {
	out, err := r.completer.Complete(ctx, Request{
		Prompt:    fmt.Sprintf(eventPromptTmpl, question),
		MaxTokens: 1024,
		WebSearch: true,
	})
	if err != nil {
		r.logger.Warn("event-reasoning-failed", zap.Error(err))
		return nil
	}

	return parseVerdict(out, "event", r.logger)
}

func parseVerdict(out, kind string, logger *zap.Logger) *types.ResolutionDecision {
	var parsed verdictShape
	if !decodeStrict(out, &parsed) {
		ParseFailuresTotal.WithLabelValues(kind).Inc()
		logger.Warn("verdict-output-malformed",
			zap.String("kind", kind),
			zap.String("output", out))
		return nil
	}

	decision := &types.ResolutionDecision{
		Answer:      parsed.Answer,
		Confidence:  parsed.Confidence,
		Explanation: parsed.Explanation,
	}
	decision.ClampConfidence()

	return decision
}

// formatQuotes renders quotes one per line for the reasoning prompt,
// including each provider's own metadata so the model can weigh sources.
func formatQuotes(quotes []types.PriceQuote) string {
	lines := make([]string, 0, len(quotes))
	for _, q := range quotes {
		line := fmt.Sprintf("%s: %s = %g", q.Source, q.Symbol, q.Price)
		if q.Confidence > 0 {
			line += fmt.Sprintf(", conf ±%g", q.Confidence)
		}
		if q.Exchange != "" {
			line += fmt.Sprintf(", exchange=%s", q.Exchange)
		}
		if q.Volume > 0 {
			line += fmt.Sprintf(", vol24h=%.0f", q.Volume)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
