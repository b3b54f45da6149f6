// Package domain contains the core domain types for the pricing context.
package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fbellman/swapdesk/internal/asset"
)

// Gas heuristics for a router swap. getAmountsOut is a read and carries
// no gas figure, so quotes estimate from the path shape.
const (
	SwapGasBase   = 120_000
	SwapGasPerHop = 60_000
)

// EstimateSwapGas returns the gas estimate for a swap along a path of
// the given length (number of addresses, minimum 2).
func EstimateSwapGas(pathLen int) uint64 {
	if pathLen < 2 {
		return SwapGasBase
	}
	return SwapGasBase + uint64(pathLen-2)*SwapGasPerHop
}

// QuoteRequest asks the engine to price a swap. Token addresses use the
// zero address as the native coin sentinel.
type QuoteRequest struct {
	TokenIn             common.Address
	TokenOut            common.Address
	AmountIn            *big.Int
	SlippageBpsOverride int64 // 0 = adaptive slippage
}

// Quote is the engine's answer: output, route, impact and the slippage
// the caller should protect the swap with.
type Quote struct {
	TokenIn  *asset.Asset
	TokenOut *asset.Asset

	AmountIn  asset.Amount
	AmountOut asset.Amount

	// Path is the router hop list. Native legs appear as the
	// wrapped-native address.
	Path []common.Address

	ExecutionPrice asset.Price

	ImpactBps int64
	Band      ImpactBand

	RecommendedSlippageBps int64
	EffectiveSlippageBps   int64
	MinimumReceived        asset.Amount

	GasEstimate uint64
	GasCost     asset.Amount // native units

	Timestamp time.Time
}

// Clone returns an independent copy. Amounts and prices are immutable
// value objects, so only the path slice needs duplication.
func (q *Quote) Clone() *Quote {
	if q == nil {
		return nil
	}
	cp := *q
	cp.Path = make([]common.Address, len(q.Path))
	copy(cp.Path, q.Path)
	return &cp
}

// Pair returns the display pair (e.g., "WETH/USDC").
func (q *Quote) Pair() string {
	if q.TokenIn == nil || q.TokenOut == nil {
		return "???/???"
	}
	return q.TokenIn.Symbol() + "/" + q.TokenOut.Symbol()
}

// Age returns how old this quote is.
func (q *Quote) Age() time.Duration {
	return time.Since(q.Timestamp)
}

// BuildPath returns the static route for a swap: direct when either leg
// is the hub, otherwise through the wrapped-native hub. Native legs
// (zero address) enter the path as the wrapped-native address.
// A path that collapses to a single token (native vs its wrapper) has
// no AMM route and returns nil.
func BuildPath(tokenIn, tokenOut, wrappedNative common.Address) []common.Address {
	effIn := tokenIn
	if effIn == (common.Address{}) {
		effIn = wrappedNative
	}
	effOut := tokenOut
	if effOut == (common.Address{}) {
		effOut = wrappedNative
	}

	if effIn == effOut {
		return nil
	}
	if effIn == wrappedNative || effOut == wrappedNative {
		return []common.Address{effIn, effOut}
	}
	return []common.Address{effIn, wrappedNative, effOut}
}
