package pricing

import (
	"context"
	"net/http"
	"time"

	"github.com/predico/oracle-pipeline/internal/registry"
	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
)

// Client fetches normalized quotes from two independent market-data
// providers. Cross-validation downstream requires corroboration, so every
// base is looked up on both providers where available; a base with zero
// successful quotes is simply excluded from the evidence set.
type Client struct {
	pythBaseURL string
	diaBaseURL  string
	batchSize   int
	registry    *registry.Registry
	httpClient  *http.Client
	logger      *zap.Logger
}

// Config holds pricing client configuration.
type Config struct {
	PythBaseURL string
	DIABaseURL  string
	BatchSize   int // max feed ids per Pyth request
	Timeout     time.Duration
	Registry    *registry.Registry
	Logger      *zap.Logger
}

// New creates a new pricing client.
func New(cfg *Config) *Client {
	return &Client{
		pythBaseURL: cfg.PythBaseURL,
		diaBaseURL:  cfg.DIABaseURL,
		batchSize:   cfg.BatchSize,
		registry:    cfg.Registry,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: cfg.Logger,
	}
}

// FetchQuotes fetches quotes for the given bases from both providers.
// Provider failures are isolated: a failed Pyth chunk or a failed DIA symbol
// drops only its own quotes. The returned slice may be empty; that is not an
// error condition.
func (c *Client) FetchQuotes(ctx context.Context, bases []string) []types.PriceQuote {
	start := time.Now()
	defer func() {
		FetchDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	quotes := make([]types.PriceQuote, 0, len(bases)*2)

	pythQuotes := c.fetchPyth(ctx, bases)
	quotes = append(quotes, pythQuotes...)

	diaQuotes := c.fetchDIA(ctx, bases)
	quotes = append(quotes, diaQuotes...)

	c.logger.Debug("quotes-fetched",
		zap.Int("bases", len(bases)),
		zap.Int("pyth-quotes", len(pythQuotes)),
		zap.Int("dia-quotes", len(diaQuotes)))

	return quotes
}
