package pricing

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
)

// pythPriceUpdate is the parsed entry shape of the Hermes latest-price
// endpoint. Price and confidence arrive as fixed-point strings that must be
// scaled by 10^expo.
type pythPriceUpdate struct {
	ID    string `json:"id"`
	Price struct {
		Price       string `json:"price"`
		Conf        string `json:"conf"`
		Expo        int32  `json:"expo"`
		PublishTime int64  `json:"publish_time"`
	} `json:"price"`
}

type pythResponse struct {
	Parsed []pythPriceUpdate `json:"parsed"`
}

// fetchPyth fetches batched quotes for the given bases. Feed ids are chunked
// to respect the upstream batch limit; a failed chunk drops only its own
// quotes.
func (c *Client) fetchPyth(ctx context.Context, bases []string) []types.PriceQuote {
	feedIDs := c.registry.FeedIDs(bases)
	if len(feedIDs) == 0 {
		return nil
	}

	var quotes []types.PriceQuote
	for _, chunk := range chunkStrings(feedIDs, c.batchSize) {
		updates, err := c.fetchPythChunk(ctx, chunk)
		if err != nil {
			ProviderErrorsTotal.WithLabelValues(string(types.SourcePyth)).Inc()
			c.logger.Warn("pyth-chunk-failed",
				zap.Int("chunk-size", len(chunk)),
				zap.Error(err))
			continue
		}

		for _, u := range updates {
			quote, err := c.normalizePyth(u)
			if err != nil {
				c.logger.Warn("pyth-quote-malformed",
					zap.String("feed-id", u.ID),
					zap.Error(err))
				continue
			}
			quotes = append(quotes, quote)
			QuotesFetchedTotal.WithLabelValues(string(types.SourcePyth)).Inc()
		}
	}

	return quotes
}

func (c *Client) fetchPythChunk(ctx context.Context, feedIDs []string) ([]pythPriceUpdate, error) {
	q := url.Values{}
	for _, id := range feedIDs {
		q.Add("ids[]", id)
	}
	reqURL := fmt.Sprintf("%s/v2/updates/price/latest?%s", c.pythBaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	var parsed pythResponse
	err = json.NewDecoder(resp.Body).Decode(&parsed)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return parsed.Parsed, nil
}

// normalizePyth converts a fixed-point feed update into a PriceQuote.
func (c *Client) normalizePyth(u pythPriceUpdate) (types.PriceQuote, error) {
	rawPrice, err := strconv.ParseFloat(u.Price.Price, 64)
	if err != nil {
		return types.PriceQuote{}, fmt.Errorf("parse price %q: %w", u.Price.Price, err)
	}

	rawConf, err := strconv.ParseFloat(u.Price.Conf, 64)
	if err != nil {
		rawConf = 0
	}

	scale := math.Pow10(int(u.Price.Expo))
	quote := types.PriceQuote{
		Source:     types.SourcePyth,
		Price:      rawPrice * scale,
		Confidence: rawConf * scale,
		ObservedAt: time.Unix(u.Price.PublishTime, 0).UTC(),
	}

	feed, ok := c.registry.FeedByID(u.ID)
	if !ok {
		// Hermes ids come back without the 0x prefix some registries carry.
		feed, ok = c.registry.FeedByID("0x" + u.ID)
	}
	if ok {
		quote.Base = feed.Base
		quote.Symbol = feed.Symbol
	} else {
		quote.Base = u.ID
		quote.Symbol = u.ID
	}

	return quote, nil
}

// chunkStrings splits xs into chunks of at most size elements.
func chunkStrings(xs []string, size int) [][]string {
	if size <= 0 {
		return [][]string{xs}
	}

	var chunks [][]string
	for i := 0; i < len(xs); i += size {
		end := i + size
		if end > len(xs) {
			end = len(xs)
		}
		chunks = append(chunks, xs[i:end])
	}
	return chunks
}
