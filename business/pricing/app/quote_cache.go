package app

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fbellman/swapdesk/internal/cache"
)

// ReferenceSample is a small-size router read used as the impact
// baseline for larger trades on the same pair.
type ReferenceSample struct {
	In  *big.Int
	Out *big.Int
}

// Clone returns an independent copy.
func (s *ReferenceSample) Clone() *ReferenceSample {
	if s == nil {
		return nil
	}
	return &ReferenceSample{
		In:  new(big.Int).Set(s.In),
		Out: new(big.Int).Set(s.Out),
	}
}

// QuoteCache holds recent reference samples keyed by pair and notional
// bucket. Only the reference read is cacheable; the trade-size router
// read happens on every quote because its output prices real money.
// Entries go stale after the configured TTL; callers always receive
// and store copies, never the cached instance.
type QuoteCache struct {
	entries *cache.Cache[string, *ReferenceSample]
	ttl     time.Duration
}

// NewQuoteCache creates a reference cache with the given TTL.
func NewQuoteCache(ttl time.Duration) *QuoteCache {
	return &QuoteCache{
		entries: cache.New[string, *ReferenceSample](ttl),
		ttl:     ttl,
	}
}

// GetReference returns a copy of the cached sample, if fresh.
func (c *QuoteCache) GetReference(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int) (*ReferenceSample, bool) {
	s, ok := c.entries.Get(ctx, quoteKey(tokenIn, tokenOut, amountIn))
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// SetReference stores a copy of the sample.
func (c *QuoteCache) SetReference(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, s *ReferenceSample) {
	if s == nil || s.In == nil || s.Out == nil {
		return
	}
	c.entries.Set(ctx, quoteKey(tokenIn, tokenOut, amountIn), s.Clone(), c.ttl)
}

// Len returns the number of live entries.
func (c *QuoteCache) Len() int {
	return c.entries.Len()
}

// Close stops the background sweeper.
func (c *QuoteCache) Close() {
	c.entries.Close()
}

// quoteKey buckets the notional by decimal order of magnitude, so a
// 1.0 and a 1.3 input share a reference while 1.0 and 13 do not.
func quoteKey(tokenIn, tokenOut common.Address, amountIn *big.Int) string {
	bucket := 0
	if amountIn != nil && amountIn.Sign() > 0 {
		bucket = len(amountIn.String())
	}
	return fmt.Sprintf("%s:%s:%d", tokenIn.Hex(), tokenOut.Hex(), bucket)
}
