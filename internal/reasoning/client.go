package reasoning

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// Completer is the reasoning/completion service abstraction. The only
// contract the pipeline relies on is: the returned text must be parseable as
// the JSON shape documented at each call site; any other shape is a parse
// failure handled by the caller, never an implicit cast.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single text-prompt completion request.
type Request struct {
	Prompt    string
	MaxTokens int64

	// WebSearch enables the provider's web-search tool so the model can
	// ground its verdict in a retrievable result. Only the event-based
	// resolution path sets it.
	WebSearch bool
}

// anthropicCompleter implements Completer using the official SDK.
type anthropicCompleter struct {
	client  sdk.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCompleter creates a Completer backed by the Anthropic Messages API.
// Every call is bounded by timeout (zero disables the bound); extra options
// are passed through to the SDK client.
func NewCompleter(apiKey, model string, timeout time.Duration, logger *zap.Logger, opts ...option.RequestOption) Completer {
	clientOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)

	return &anthropicCompleter{
		client:  sdk.NewClient(clientOpts...),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

func (c *anthropicCompleter) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}

	if req.WebSearch {
		params.Tools = []sdk.ToolUnionParam{
			{
				OfWebSearchTool20250305: &sdk.WebSearchTool20250305Param{
					MaxUses: sdk.Int(3),
				},
			},
		}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		RequestErrorsTotal.Inc()
		return "", fmt.Errorf("create message: %w", err)
	}

	RequestDurationSeconds.Observe(time.Since(start).Seconds())
	TokensTotal.WithLabelValues("input").Add(float64(msg.Usage.InputTokens))
	TokensTotal.WithLabelValues("output").Add(float64(msg.Usage.OutputTokens))

	// Web-search responses interleave tool blocks with text; concatenate
	// the text blocks only.
	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	c.logger.Debug("completion-finished",
		zap.String("model", c.model),
		zap.Bool("web-search", req.WebSearch),
		zap.Int64("input-tokens", msg.Usage.InputTokens),
		zap.Int64("output-tokens", msg.Usage.OutputTokens),
		zap.Duration("duration", time.Since(start)))

	return sb.String(), nil
}
