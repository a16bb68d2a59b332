package testutil

import (
	"math/big"
	"time"

	"github.com/predico/oracle-pipeline/internal/registry"
	"github.com/predico/oracle-pipeline/pkg/types"
)

// CreateTestMarket creates a market record awaiting a proposal.
func CreateTestMarket(id uint64, question string) *types.MarketRecord {
	return &types.MarketRecord{
		ID:       id,
		Question: question,
		EndTime:  time.Now().Add(-time.Hour).UTC(),
		Status:   types.StatusClosed,
		YesPool:  big.NewInt(1_000_000),
		NoPool:   big.NewInt(800_000),
	}
}

// CreateTestRegistry creates a small asset registry with BTC and ETH feeds.
func CreateTestRegistry() *registry.Registry {
	return registry.New([]registry.Feed{
		{Base: "BTC", Symbol: "BTC/USD", ID: "feed-btc", Quote: "USD"},
		{Base: "ETH", Symbol: "ETH/USD", ID: "feed-eth", Quote: "USD"},
	})
}

// CreateTestQuotes creates one quote per provider for a base symbol.
func CreateTestQuotes(base string, price float64) []types.PriceQuote {
	now := time.Now()
	return []types.PriceQuote{
		{
			Source:     types.SourcePyth,
			Base:       base,
			Symbol:     base + "/USD",
			Price:      price,
			Confidence: price * 0.001,
			ObservedAt: now,
		},
		{
			Source:     types.SourceDIA,
			Base:       base,
			Symbol:     base + "/USD",
			Price:      price * 1.001,
			Exchange:   "Binance",
			Volume:     12_000_000,
			ObservedAt: now,
		},
	}
}

// CreateTestDecision creates an affirmative high-confidence verdict.
func CreateTestDecision() *types.ResolutionDecision {
	return &types.ResolutionDecision{
		Answer:      true,
		Confidence:  0.93,
		Explanation: "both sources agree the threshold was crossed",
	}
}
