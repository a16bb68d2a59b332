package pricing

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
)

// diaQuotation is the response shape of the DIA quotation endpoint.
type diaQuotation struct {
	Symbol             string    `json:"Symbol"`
	Name               string    `json:"Name"`
	Price              float64   `json:"Price"`
	Source             string    `json:"Source"`
	VolumeYesterdayUSD float64   `json:"VolumeYesterdayUSD"`
	Time               time.Time `json:"Time"`
}

// fetchDIA fetches one quotation per base. Failures are isolated per symbol:
// one base failing must not drop quotes for the others.
func (c *Client) fetchDIA(ctx context.Context, bases []string) []types.PriceQuote {
	quotes := make([]types.PriceQuote, 0, len(bases))

	for _, base := range bases {
		quote, err := c.fetchDIAQuotation(ctx, base)
		if err != nil {
			ProviderErrorsTotal.WithLabelValues(string(types.SourceDIA)).Inc()
			c.logger.Warn("dia-quotation-failed",
				zap.String("base", base),
				zap.Error(err))
			continue
		}

		quotes = append(quotes, quote)
		QuotesFetchedTotal.WithLabelValues(string(types.SourceDIA)).Inc()
	}

	return quotes
}

func (c *Client) fetchDIAQuotation(ctx context.Context, base string) (types.PriceQuote, error) {
	reqURL := fmt.Sprintf("%s/v1/quotation/%s", c.diaBaseURL, base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.PriceQuote{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.PriceQuote{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.PriceQuote{}, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	var q diaQuotation
	err = json.NewDecoder(resp.Body).Decode(&q)
	if err != nil {
		return types.PriceQuote{}, fmt.Errorf("decode response: %w", err)
	}

	return types.PriceQuote{
		Source:     types.SourceDIA,
		Base:       base,
		Symbol:     base + "/USD",
		Price:      q.Price,
		Exchange:   q.Source,
		Volume:     q.VolumeYesterdayUSD,
		ObservedAt: q.Time,
	}, nil
}
