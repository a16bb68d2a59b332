package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeeds() []Feed {
	return []Feed{
		{Base: "BTC", Symbol: "BTC/USD", ID: "feed-btc", Quote: "USD"},
		{Base: "ETH", Symbol: "ETH/USD", ID: "feed-eth", Quote: "USD"},
		{Base: "ADA", Symbol: "ADA/USD", ID: "feed-ada", Quote: "USD"},
	}
}

func TestLoad(t *testing.T) {
	t.Run("valid-file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feeds.json")
		data := `[
			{"base":"BTC","symbol":"BTC/USD","id":"feed-btc","quote":"USD"},
			{"base":"ETH","symbol":"ETH/USD","id":"feed-eth","quote":"USD"}
		]`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		r, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2, r.Len())
		assert.Equal(t, []string{"BTC", "ETH"}, r.Bases())
	})

	t.Run("missing-file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed-json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feeds.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("empty-feed-list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feeds.json")
		require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestRegistry_Bases_SortedAndUnique(t *testing.T) {
	r := New(append(testFeeds(), Feed{Base: "BTC", Symbol: "BTC/USDT", ID: "feed-btc-2", Quote: "USDT"}))

	assert.Equal(t, []string{"ADA", "BTC", "ETH"}, r.Bases())
}

func TestRegistry_HasBase(t *testing.T) {
	r := New(testFeeds())

	assert.True(t, r.HasBase("BTC"))
	assert.False(t, r.HasBase("DOGE"))
	assert.False(t, r.HasBase("btc"), "lookup is case sensitive; callers normalize first")
}

func TestRegistry_FeedIDs(t *testing.T) {
	r := New(testFeeds())

	ids := r.FeedIDs([]string{"BTC", "DOGE", "ETH"})
	assert.Equal(t, []string{"feed-btc", "feed-eth"}, ids)

	assert.Nil(t, r.FeedIDs(nil))
}

func TestRegistry_FeedByID(t *testing.T) {
	r := New(testFeeds())

	feed, ok := r.FeedByID("feed-eth")
	require.True(t, ok)
	assert.Equal(t, "ETH", feed.Base)

	_, ok = r.FeedByID("feed-doge")
	assert.False(t, ok)
}
