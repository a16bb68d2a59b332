package reasoning

import (
	"context"
	"fmt"

	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
)

const classifyPromptTmpl = `You are a classifier for prediction market questions.

Question: %q

Decide the category:
- "financial" if it is about asset prices, tokens, BTC, ETH, market caps, ROI, thresholds in dollars.
- "event" if it is about real-world events: teams, matches, scores, elections, standings, who won.
- "unknown" if neither.

Return STRICT JSON ONLY:
{"category": "financial" | "event" | "unknown"}`

// Classifier categorizes a free-text market question into a domain.
type Classifier struct {
	completer Completer
	logger    *zap.Logger
}

// NewClassifier creates a new question classifier.
func NewClassifier(completer Completer, logger *zap.Logger) *Classifier {
	return &Classifier{
		completer: completer,
		logger:    logger,
	}
}

// Classify performs a single classification pass. Any failure (request
// error, unparseable output, or a label outside the allowed three) yields
// DomainUnknown. Classification failure is a valid terminal state that
// routes to "cannot resolve"; it never aborts the pipeline and is never
// retried here.
func (c *Classifier) Classify(ctx context.Context, question string) types.Classification {
	out, err := c.completer.Complete(ctx, Request{
		Prompt:    fmt.Sprintf(classifyPromptTmpl, question),
		MaxTokens: 64,
	})
	if err != nil {
		c.logger.Warn("classification-request-failed", zap.Error(err))
		return types.Classification{Domain: types.DomainUnknown}
	}

	var parsed struct {
		Category string `json:"category"`
	}
	if !decodeStrict(out, &parsed) {
		ParseFailuresTotal.WithLabelValues("classify").Inc()
		c.logger.Warn("classification-output-malformed", zap.String("output", out))
		return types.Classification{Domain: types.DomainUnknown}
	}

	switch types.Domain(parsed.Category) {
	case types.DomainFinancial:
		return types.Classification{Domain: types.DomainFinancial}
	case types.DomainEvent:
		return types.Classification{Domain: types.DomainEvent}
	case types.DomainUnknown:
		return types.Classification{Domain: types.DomainUnknown}
	default:
		ParseFailuresTotal.WithLabelValues("classify").Inc()
		c.logger.Warn("classification-label-unrecognized", zap.String("label", parsed.Category))
		return types.Classification{Domain: types.DomainUnknown}
	}
}
