package domain

import "github.com/fbellman/swapdesk/internal/asset"

// Factor scales in thousandths so slippage math stays integral.
const (
	volStablePair  = 800  // both legs stable
	volMajorPair   = 1000 // stables and majors
	volUnknownLeg  = 1300 // any unclassified leg
	liqFactorFloor = 1000 // deep pool
	liqFactorSpan  = 500  // thin pool adds up to +0.5x
)

// SlippagePolicy turns an impact reading into a slippage tolerance.
// Recommended = band base x volatility factor x liquidity factor,
// clamped to [MinBps, MaxBps]. Explicit overrides skip the adaptation
// but still clamp.
type SlippagePolicy struct {
	MinBps int64
	MaxBps int64
}

// Recommend computes the adaptive slippage for a quote.
func (p SlippagePolicy) Recommend(band ImpactBand, in, out *asset.Asset, impactBps int64) int64 {
	base := band.BaseSlippageBps()
	vol := volatilityFactor(in, out)
	liq := liquidityFactor(impactBps)

	bps := base * vol * liq / 1_000_000
	return p.Clamp(bps)
}

// Clamp bounds any slippage value, including request overrides.
func (p SlippagePolicy) Clamp(bps int64) int64 {
	if bps < p.MinBps {
		return p.MinBps
	}
	if bps > p.MaxBps {
		return p.MaxBps
	}
	return bps
}

// MinimumReceived applies the slippage tolerance as an output floor:
// out * (10000 - bps) / 10000, integer floor.
func MinimumReceived(out asset.Amount, slippageBps int64) asset.Amount {
	floor, err := out.MulDiv(10000-slippageBps, 10000)
	if err != nil {
		return asset.Zero(out.Asset())
	}
	return floor
}

func volatilityFactor(in, out *asset.Asset) int64 {
	inClass, outClass := asset.ClassUnknown, asset.ClassUnknown
	if in != nil {
		inClass = in.Class()
	}
	if out != nil {
		outClass = out.Class()
	}

	if inClass == asset.ClassUnknown || outClass == asset.ClassUnknown {
		return volUnknownLeg
	}
	if inClass == asset.ClassStable && outClass == asset.ClassStable {
		return volStablePair
	}
	return volMajorPair
}

// liquidityFactor reads pool depth off the trade's own impact: a deep
// pool at this size sits at 1.0, a pool already moving 500 bps tops
// out at 1.5.
func liquidityFactor(impactBps int64) int64 {
	if impactBps < 0 {
		impactBps = 0
	}
	if impactBps > liqFactorSpan {
		impactBps = liqFactorSpan
	}
	return liqFactorFloor + impactBps
}
