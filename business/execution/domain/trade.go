// Package domain contains the core domain types for the execution context.
package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/asset"
)

// TradeState is a phase of the execution state machine. Every trade
// walks Quoting -> Validating -> (Approving) -> Simulating|Submitting
// and terminates in Confirmed or Failed.
type TradeState string

const (
	StateQuoting    TradeState = "quoting"
	StateValidating TradeState = "validating"
	StateApproving  TradeState = "approving"
	StateSimulating TradeState = "simulating"
	StateSubmitting TradeState = "submitting"
	StateConfirmed  TradeState = "confirmed"
	StateFailed     TradeState = "failed"
)

// SwapVariant selects the router entrypoint by which legs are native.
type SwapVariant string

const (
	SwapNativeForTokens SwapVariant = "swapExactETHForTokens"
	SwapTokensForNative SwapVariant = "swapExactTokensForETH"
	SwapTokensForTokens SwapVariant = "swapExactTokensForTokens"
)

// SelectSwapVariant picks the router entrypoint for a token pair. The
// zero address marks the native coin.
func SelectSwapVariant(tokenIn, tokenOut common.Address) SwapVariant {
	switch {
	case tokenIn == (common.Address{}):
		return SwapNativeForTokens
	case tokenOut == (common.Address{}):
		return SwapTokensForNative
	default:
		return SwapTokensForTokens
	}
}

// Fallback gas limits per variant, used when on-chain estimation fails.
// Token legs pay for the transfer/approval bookkeeping of each side.
const (
	GasFallbackNativeIn   = 180_000
	GasFallbackNativeOut  = 220_000
	GasFallbackTokenToken = 260_000
)

// FallbackGasLimit returns the static gas limit for a swap variant.
func FallbackGasLimit(v SwapVariant) uint64 {
	switch v {
	case SwapNativeForTokens:
		return GasFallbackNativeIn
	case SwapTokensForNative:
		return GasFallbackNativeOut
	default:
		return GasFallbackTokenToken
	}
}

// TradeRequest asks the executor to swap AmountIn of TokenIn for
// TokenOut from the given wallet. It is read-only to the engine.
type TradeRequest struct {
	Wallet   common.Address
	TokenIn  common.Address
	TokenOut common.Address
	AmountIn *big.Int

	// SlippageBpsOverride replaces the adaptive slippage when > 0.
	SlippageBpsOverride int64

	// MaxImpactBps tightens the hard impact ceiling when > 0. It can
	// never loosen it.
	MaxImpactBps int64

	// DryRun simulates the swap without submitting anything.
	DryRun bool

	// DeadlineSeconds bounds the on-chain validity of the swap. Zero
	// means the configured default.
	DeadlineSeconds int64
}

// TradeResult is the outcome of one TradeRequest. The executor never
// returns an error; every failure mode lands here.
type TradeResult struct {
	Wallet  common.Address
	State   TradeState
	Success bool

	// TxHash is empty for dry runs and for failures before submission.
	TxHash common.Hash

	Quote *QuoteSummary

	AmountIn        asset.Amount
	AmountOut       asset.Amount
	MinimumReceived asset.Amount

	GasUsed  uint64
	GasPrice *big.Int

	ErrorCode    apperror.Code
	ErrorMessage string

	StartedAt  time.Time
	FinishedAt time.Time

	// Timings records how long each phase ran.
	Timings map[TradeState]time.Duration
}

// QuoteSummary carries the pricing figures the trade executed under.
type QuoteSummary struct {
	Pair                 string
	Path                 []common.Address
	ImpactBps            int64
	EffectiveSlippageBps int64
	ExecutionPrice       asset.Price
}

// Duration returns the wall time of the whole execution.
func (r *TradeResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Failed returns true for any terminal failure.
func (r *TradeResult) Failed() bool {
	return !r.Success
}

// GasCost returns gasUsed x gasPrice in wei, or zero when unknown.
func (r *TradeResult) GasCost() *big.Int {
	if r.GasPrice == nil || r.GasUsed == 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(r.GasPrice, new(big.Int).SetUint64(r.GasUsed))
}
