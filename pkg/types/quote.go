package types

import "time"

// QuoteSource identifies which price provider produced a quote.
type QuoteSource string

const (
	// SourcePyth is the Pyth Hermes batch price feed.
	SourcePyth QuoteSource = "pyth"
	// SourceDIA is the DIA per-symbol quotation API.
	SourceDIA QuoteSource = "dia"
)

// PriceQuote is a normalized quote from one provider for one base asset.
// Quotes from different providers for the same base are never assumed to
// agree; divergence is evidence for the reasoner, not an error.
type PriceQuote struct {
	Source QuoteSource
	Base   string // canonical base symbol, e.g. "BTC"
	Symbol string // display pair, e.g. "BTC/USD"
	Price  float64

	// Confidence is the provider's uncertainty interval in price units.
	// Only Pyth reports it; zero means "not reported".
	Confidence float64

	// Exchange is the venue the quote was sourced from. Only DIA reports it.
	Exchange string

	// Volume is the provider-reported volume, if any.
	Volume float64

	// ObservedAt is the provider timestamp for the quote, zero if unknown.
	ObservedAt time.Time
}
