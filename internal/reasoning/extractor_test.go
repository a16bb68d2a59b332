package reasoning

import (
	"context"
	"errors"
	"testing"

	"github.com/predico/oracle-pipeline/internal/registry"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testRegistry() *registry.Registry {
	return registry.New([]registry.Feed{
		{Base: "BTC", Symbol: "BTC/USD", ID: "feed-btc", Quote: "USD"},
		{Base: "ETH", Symbol: "ETH/USD", ID: "feed-eth", Quote: "USD"},
		{Base: "SOL", Symbol: "SOL/USD", ID: "feed-sol", Quote: "USD"},
	})
}

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name      string
		completer Completer
		expected  []string
	}{
		{
			name:      "known-bases",
			completer: staticCompleter(`["BTC","ETH"]`),
			expected:  []string{"BTC", "ETH"},
		},
		{
			name:      "unknown-base-dropped",
			completer: staticCompleter(`["BTC","DOGE"]`),
			expected:  []string{"BTC"},
		},
		{
			name:      "lowercase-normalized",
			completer: staticCompleter(`["btc"," sol "]`),
			expected:  []string{"BTC", "SOL"},
		},
		{
			name:      "duplicates-removed",
			completer: staticCompleter(`["ETH","eth","ETH"]`),
			expected:  []string{"ETH"},
		},
		{
			name:      "empty-array",
			completer: staticCompleter(`[]`),
			expected:  nil,
		},
		{
			name:      "all-unknown",
			completer: staticCompleter(`["XYZ","ABC"]`),
			expected:  nil,
		},
		{
			name:      "malformed-output",
			completer: staticCompleter(`BTC and ETH are mentioned`),
			expected:  nil,
		},
		{
			name:      "request-error",
			completer: failingCompleter(errors.New("timeout")),
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(tt.completer, testRegistry(), zap.NewNop())

			bases := e.Extract(context.Background(), "Will bitcoin or ether moon?")

			assert.Equal(t, tt.expected, bases)
		})
	}
}
