package reasoning

import (
	"context"
	"fmt"
	"strings"

	"github.com/predico/oracle-pipeline/internal/registry"
	"go.uber.org/zap"
)

const extractPromptTmpl = `You are a crypto symbol extractor.

Question: %q

Valid base symbols you can choose from:
%s

Task:
- Identify which of the valid bases are mentioned, directly or via common
  names ("bitcoin" = BTC, "ether" = ETH, "solana" = SOL).
- Return ONLY the matching bases as a STRICT JSON array, e.g.:
["BTC","SOL"]`

// Extractor maps a question to the registry bases it mentions. Only the
// financial resolution path uses it.
type Extractor struct {
	completer Completer
	registry  *registry.Registry
	logger    *zap.Logger
}

// NewExtractor creates a new entity extractor.
func NewExtractor(completer Completer, reg *registry.Registry, logger *zap.Logger) *Extractor {
	return &Extractor{
		completer: completer,
		registry:  reg,
		logger:    logger,
	}
}

// Extract returns the registry bases mentioned by the question, in the order
// the model produced them, deduplicated. Identifiers outside the registry are
// dropped rather than accepted verbatim, so no downstream lookup can target
// an unknown asset. An empty result is valid and signals "abstain from
// financial resolution"; request and parse failures also yield empty.
func (e *Extractor) Extract(ctx context.Context, question string) []string {
	out, err := e.completer.Complete(ctx, Request{
		Prompt:    fmt.Sprintf(extractPromptTmpl, question, strings.Join(e.registry.Bases(), ", ")),
		MaxTokens: 256,
	})
	if err != nil {
		e.logger.Warn("extraction-request-failed", zap.Error(err))
		return nil
	}

	var candidates []string
	if !decodeStrict(out, &candidates) {
		ParseFailuresTotal.WithLabelValues("extract").Inc()
		e.logger.Warn("extraction-output-malformed", zap.String("output", out))
		return nil
	}

	seen := make(map[string]bool, len(candidates))
	var bases []string
	for _, base := range candidates {
		base = strings.ToUpper(strings.TrimSpace(base))
		if base == "" || seen[base] {
			continue
		}
		if !e.registry.HasBase(base) {
			e.logger.Debug("extraction-dropped-unknown-base", zap.String("base", base))
			continue
		}
		seen[base] = true
		bases = append(bases, base)
	}

	return bases
}
