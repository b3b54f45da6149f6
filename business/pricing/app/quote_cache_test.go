package app

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fbellman/swapdesk/internal/asset"
)

func TestQuoteCache_HitWithinTTL(t *testing.T) {
	ctx := context.Background()
	cache := NewQuoteCache(time.Minute)
	defer cache.Close()

	sample := &ReferenceSample{In: big.NewInt(1e15), Out: big.NewInt(3e15)}
	cache.SetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, big.NewInt(1e18), sample)

	got, ok := cache.GetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, big.NewInt(1e18))
	require.True(t, ok)
	require.Equal(t, sample.In, got.In)
	require.Equal(t, sample.Out, got.Out)
}

func TestQuoteCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	cache := NewQuoteCache(time.Minute)
	defer cache.Close()

	sample := &ReferenceSample{In: big.NewInt(1e15), Out: big.NewInt(3e15)}
	cache.SetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, big.NewInt(1e18), sample)

	// Mutating the original after SetReference must not reach the cache.
	sample.Out.SetInt64(1)

	first, ok := cache.GetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, big.NewInt(1e18))
	require.True(t, ok)
	require.Equal(t, big.NewInt(3e15), first.Out)

	// Mutating a returned sample must not reach later readers.
	first.Out.SetInt64(2)

	second, ok := cache.GetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, big.NewInt(1e18))
	require.True(t, ok)
	require.Equal(t, big.NewInt(3e15), second.Out)
}

func TestQuoteCache_NotionalBuckets(t *testing.T) {
	ctx := context.Background()
	cache := NewQuoteCache(time.Minute)
	defer cache.Close()

	sample := &ReferenceSample{In: big.NewInt(1e15), Out: big.NewInt(3e15)}
	cache.SetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, big.NewInt(1e18), sample)

	// Same order of magnitude shares the entry.
	_, ok := cache.GetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, big.NewInt(1.3e18))
	require.True(t, ok)

	// An order of magnitude apart misses.
	bigger := new(big.Int).Mul(big.NewInt(13), big.NewInt(1e18))
	_, ok = cache.GetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, bigger)
	require.False(t, ok)

	// Reversed direction is a different entry.
	_, ok = cache.GetReference(ctx, asset.AddrUSDCEthereum, asset.AddrWETHEthereum, big.NewInt(1e18))
	require.False(t, ok)
}

func TestQuoteCache_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	cache := NewQuoteCache(10 * time.Millisecond)
	defer cache.Close()

	sample := &ReferenceSample{In: big.NewInt(1e15), Out: big.NewInt(3e15)}
	cache.SetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, big.NewInt(1e18), sample)
	time.Sleep(30 * time.Millisecond)

	_, ok := cache.GetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, big.NewInt(1e18))
	require.False(t, ok)
}

func TestQuoteCache_IgnoresIncompleteSamples(t *testing.T) {
	ctx := context.Background()
	cache := NewQuoteCache(time.Minute)
	defer cache.Close()

	cache.SetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, big.NewInt(1e18), nil)
	cache.SetReference(ctx, asset.AddrWETHEthereum, asset.AddrUSDCEthereum, big.NewInt(1e18), &ReferenceSample{})
	require.Zero(t, cache.Len())
}
