package hyperliquid

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// nonceDriftThresholdMs is how far the counter may trail the wall clock
// before it is resynced. The venue accepts nonces within (T - 2 days,
// T + 1 day) of the block timestamp, so a few minutes of drift is safe.
const nonceDriftThresholdMs = 300_000

// nonceAheadWarnMs triggers a diagnostic when issued nonces run ahead of
// the wall clock, which happens under sustained bursts of actions.
const nonceAheadWarnMs = 1_000

// NonceClock issues strictly increasing millisecond nonces shared by all
// actions signed with the same key. It is safe for concurrent use.
type NonceClock struct {
	last   atomic.Int64
	now    func() int64
	logger *zerolog.Logger
}

// NewNonceClock seeds the clock from the current wall time.
func NewNonceClock(opts ...Opt[NonceClock]) *NonceClock {
	c := &NonceClock{now: func() int64 { return time.Now().UnixMilli() }}
	for _, opt := range opts {
		opt.Apply(c)
	}
	c.last.Store(c.now() - 1)
	return c
}

// Next claims the next nonce. Consecutive calls return strictly
// increasing values even when the wall clock has not advanced; when the
// counter trails the wall clock by more than nonceDriftThresholdMs it
// jumps forward to wall time.
func (c *NonceClock) Next() int64 {
	for {
		last := c.last.Load()
		wall := c.now()

		candidate := last + 1
		if last+nonceDriftThresholdMs < wall {
			candidate = wall + 1
		}

		if c.last.CompareAndSwap(last, candidate) {
			if c.logger != nil && candidate > wall+nonceAheadWarnMs {
				c.logger.Warn().
					Int64("nonce", candidate).
					Int64("wall_ms", wall).
					Msg("nonce running ahead of wall clock")
			}
			return candidate
		}
	}
}

// Resume restores the counter from a persisted nonce, e.g. after a
// restart. Most users do not need this.
func (c *NonceClock) Resume(n int64) {
	c.last.Store(n)
}
