package chainwatch

import (
	"math/rand"
	"time"
)

// timeAfter is swapped out in tests to avoid real sleeps.
//
//nolint:gochecknoglobals // Test seam
var timeAfter = time.After

// RetryConfig bounds retry behaviour for log queries and resubscription.
type RetryConfig struct {
	MaxRetries int           // additional attempts after the first
	BaseDelay  time.Duration // first retry delay
	MaxDelay   time.Duration // backoff ceiling
}

// expBackoff produces exponentially growing delays with jitter, capped at
// MaxDelay. Not safe for concurrent use.
type expBackoff struct {
	cfg  RetryConfig
	next time.Duration
}

func newBackoff(cfg RetryConfig) *expBackoff {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}

	return &expBackoff{cfg: cfg, next: cfg.BaseDelay}
}

// Next returns the current delay with up to 25% jitter and doubles the base
// for the next call.
func (b *expBackoff) Next() time.Duration {
	delay := b.next

	b.next *= 2
	if b.next > b.cfg.MaxDelay {
		b.next = b.cfg.MaxDelay
	}

	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1)) //nolint:gosec // Jitter does not need crypto randomness
	return delay + jitter
}

// Reset returns the backoff to its base delay after a successful attempt.
func (b *expBackoff) Reset() {
	b.next = b.cfg.BaseDelay
}
