package domain

import "math/big"

// ImpactBand buckets price impact into coarse severity levels.
type ImpactBand string

const (
	BandMinimal  ImpactBand = "minimal"   // < 10 bps
	BandLow      ImpactBand = "low"       // < 100 bps
	BandMedium   ImpactBand = "medium"    // < 300 bps
	BandHigh     ImpactBand = "high"      // < 500 bps
	BandVeryHigh ImpactBand = "very_high" // >= 500 bps
)

// HardImpactCeilingBps is the absolute impact limit for execution.
// Request overrides may tighten it, never raise it.
const HardImpactCeilingBps = 500

// ClassifyImpact maps an impact in basis points to its band.
func ClassifyImpact(bps int64) ImpactBand {
	switch {
	case bps < 10:
		return BandMinimal
	case bps < 100:
		return BandLow
	case bps < 300:
		return BandMedium
	case bps < 500:
		return BandHigh
	default:
		return BandVeryHigh
	}
}

// BaseSlippageBps returns the band's slippage starting point before
// volatility and liquidity adjustment.
func (b ImpactBand) BaseSlippageBps() int64 {
	switch b {
	case BandMinimal:
		return 30
	case BandLow:
		return 60
	case BandMedium:
		return 120
	case BandHigh:
		return 250
	default:
		return 400
	}
}

// CalculatePriceImpact computes (expected - actual) / expected in basis
// points. An actual output at or above the expectation is zero impact.
func CalculatePriceImpact(expectedOut, actualOut *big.Int) int64 {
	if expectedOut == nil || expectedOut.Sign() <= 0 {
		return 0
	}
	if actualOut == nil {
		actualOut = big.NewInt(0)
	}

	diff := new(big.Int).Sub(expectedOut, actualOut)
	if diff.Sign() <= 0 {
		return 0
	}

	bps := diff.Mul(diff, big.NewInt(10000))
	bps.Div(bps, expectedOut)
	return bps.Int64()
}

// ExpectedOut scales a reference sample (probeIn -> probeOut) to the
// trade size: probeOut * amountIn / probeIn, floored.
func ExpectedOut(probeIn, probeOut, amountIn *big.Int) *big.Int {
	if probeIn == nil || probeIn.Sign() == 0 {
		return big.NewInt(0)
	}
	expected := new(big.Int).Mul(probeOut, amountIn)
	return expected.Div(expected, probeIn)
}
