package registry

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"
)

// Feed maps a base asset to its provider identifiers. The registry file is
// the same shape the Pyth feed list ships in: one entry per feed.
type Feed struct {
	Base   string `json:"base"`   // canonical base symbol, e.g. "BTC"
	Symbol string `json:"symbol"` // display pair, e.g. "BTC/USD"
	ID     string `json:"id"`     // Pyth price feed identifier
	Quote  string `json:"quote"`  // quote currency, usually "USD"
}

// Registry is the fixed set of assets the pipeline can resolve against.
// Loaded once at startup; immutable afterwards. The entity extractor is
// constrained to its bases, so nothing outside the registry ever reaches a
// price lookup.
type Registry struct {
	feeds  []Feed
	byBase map[string][]Feed
	byID   map[string]Feed
	bases  []string
}

// Load reads a registry from a JSON file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var feeds []Feed
	err = json.Unmarshal(data, &feeds)
	if err != nil {
		return nil, fmt.Errorf("parse registry file %q: %w", path, err)
	}

	if len(feeds) == 0 {
		return nil, fmt.Errorf("registry file %q contains no feeds", path)
	}

	return New(feeds), nil
}

// New builds a registry from a feed list.
func New(feeds []Feed) *Registry {
	r := &Registry{
		feeds:  feeds,
		byBase: make(map[string][]Feed),
		byID:   make(map[string]Feed),
	}

	for _, f := range feeds {
		r.byBase[f.Base] = append(r.byBase[f.Base], f)
		r.byID[f.ID] = f
	}

	r.bases = make([]string, 0, len(r.byBase))
	for base := range r.byBase {
		r.bases = append(r.bases, base)
	}
	sort.Strings(r.bases)

	return r
}

// Bases returns the sorted unique base symbols.
func (r *Registry) Bases() []string {
	out := make([]string, len(r.bases))
	copy(out, r.bases)
	return out
}

// HasBase reports whether a base symbol is in the registry.
func (r *Registry) HasBase(base string) bool {
	_, ok := r.byBase[base]
	return ok
}

// FeedIDs returns the provider feed identifiers for the given bases.
// Unknown bases are skipped.
func (r *Registry) FeedIDs(bases []string) []string {
	var ids []string
	for _, base := range bases {
		for _, f := range r.byBase[base] {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// FeedByID looks up a feed by its provider identifier.
func (r *Registry) FeedByID(id string) (Feed, bool) {
	f, ok := r.byID[id]
	return f, ok
}

// Len returns the number of feeds in the registry.
func (r *Registry) Len() int {
	return len(r.feeds)
}
