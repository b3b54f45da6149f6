package domain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fbellman/swapdesk/internal/asset"
)

var testUnknownToken = asset.MustNewToken(
	asset.ChainIDEthereum,
	common.HexToAddress("0x6982508145454Ce325dDbE47a25d4ec3d2311933"),
	"PEPE", "Pepe", 18,
)

func TestSlippagePolicy_Recommend(t *testing.T) {
	policy := SlippagePolicy{MinBps: 50, MaxBps: 500}

	tests := []struct {
		name      string
		band      ImpactBand
		in        *asset.Asset
		out       *asset.Asset
		impactBps int64
		want      int64
	}{
		{
			// minimal base 30 x 1.0 x 1.0 = 30, floored at 50
			name: "major_pair_zero_impact_hits_floor",
			band: BandMinimal, in: asset.WETH, out: asset.USDC,
			impactBps: 0, want: 50,
		},
		{
			// 30 x 0.8 x 1.0 = 24, floored at 50
			name: "stable_pair_discount_still_floored",
			band: BandMinimal, in: asset.USDC, out: asset.USDT,
			impactBps: 0, want: 50,
		},
		{
			// 30 x 1.3 x 1.0 = 39, floored at 50
			name: "unknown_leg_minimal_still_floored",
			band: BandMinimal, in: asset.WETH, out: testUnknownToken,
			impactBps: 0, want: 50,
		},
		{
			// 60 x 1.0 x 1.05 = 63
			name: "low_band_major_pair",
			band: BandLow, in: asset.WETH, out: asset.USDC,
			impactBps: 50, want: 63,
		},
		{
			// 120 x 1.0 x 1.15 = 138
			name: "medium_band_major_pair",
			band: BandMedium, in: asset.WETH, out: asset.WBTC,
			impactBps: 150, want: 138,
		},
		{
			// 250 x 1.3 x 1.4 = 455
			name: "high_band_unknown_leg",
			band: BandHigh, in: testUnknownToken, out: asset.WETH,
			impactBps: 400, want: 455,
		},
		{
			// 400 x 1.3 x 1.5 = 780, capped at 500
			name: "very_high_band_capped",
			band: BandVeryHigh, in: testUnknownToken, out: asset.WETH,
			impactBps: 600, want: 500,
		},
		{
			// 120 x 0.8 x 1.15 = 110 (integer division: 120*800*1150/1e6)
			name: "stable_pair_medium_band",
			band: BandMedium, in: asset.USDC, out: asset.DAI,
			impactBps: 150, want: 110,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Recommend(tt.band, tt.in, tt.out, tt.impactBps)
			if got != tt.want {
				t.Errorf("Recommend(%v, %s, %s, %d) = %d, want %d",
					tt.band, tt.in.Symbol(), tt.out.Symbol(), tt.impactBps, got, tt.want)
			}
		})
	}
}

func TestSlippagePolicy_RecommendAlwaysInBounds(t *testing.T) {
	policy := SlippagePolicy{MinBps: 50, MaxBps: 500}
	bands := []ImpactBand{BandMinimal, BandLow, BandMedium, BandHigh, BandVeryHigh}
	assets := []*asset.Asset{asset.WETH, asset.USDC, testUnknownToken}

	for _, band := range bands {
		for _, in := range assets {
			for _, out := range assets {
				for _, impact := range []int64{0, 5, 99, 300, 499, 500, 2000} {
					got := policy.Recommend(band, in, out, impact)
					if got < policy.MinBps || got > policy.MaxBps {
						t.Errorf("Recommend(%v, %s, %s, %d) = %d out of [%d, %d]",
							band, in.Symbol(), out.Symbol(), impact, got,
							policy.MinBps, policy.MaxBps)
					}
				}
			}
		}
	}
}

func TestSlippagePolicy_Clamp(t *testing.T) {
	policy := SlippagePolicy{MinBps: 50, MaxBps: 500}

	tests := []struct {
		name string
		bps  int64
		want int64
	}{
		{"below_floor", 10, 50},
		{"at_floor", 50, 50},
		{"inside_bounds", 120, 120},
		{"at_cap", 500, 500},
		{"above_cap", 800, 500},
		{"negative", -5, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Clamp(tt.bps); got != tt.want {
				t.Errorf("Clamp(%d) = %d, want %d", tt.bps, got, tt.want)
			}
		})
	}
}

func TestMinimumReceived(t *testing.T) {
	tests := []struct {
		name        string
		out         int64
		slippageBps int64
		want        string
	}{
		{"fifty_bps_is_point_nine_nine_five", 1_000_000, 50, "995000"},
		{"hundred_bps", 1_000_000, 100, "990000"},
		{"floors_fractional_result", 999, 50, "994"}, // 999*9950/10000 = 994.005
		{"zero_slippage", 1_000_000, 0, "1000000"},
		{"max_slippage", 1_000_000, 500, "950000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := asset.NewAmount(asset.USDC, big.NewInt(tt.out))
			got := MinimumReceived(out, tt.slippageBps)
			if got.Raw().String() != tt.want {
				t.Errorf("MinimumReceived(%d, %d) = %s, want %s",
					tt.out, tt.slippageBps, got.Raw(), tt.want)
			}
		})
	}
}

func TestMinimumReceived_FormulaExact(t *testing.T) {
	// min = out * (10000 - bps) / 10000 with integer floor, no drift
	out := asset.NewAmount(asset.WETH, big.NewInt(123_456_789_123_456_789))
	bps := int64(73)

	got := MinimumReceived(out, bps)

	want := new(big.Int).Mul(out.Raw(), big.NewInt(10000-bps))
	want.Div(want, big.NewInt(10000))

	if got.Raw().Cmp(want) != 0 {
		t.Errorf("MinimumReceived = %s, want %s", got.Raw(), want)
	}
}

func TestBuildPath(t *testing.T) {
	wnative := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	usdc := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	dai := common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	native := common.Address{}

	tests := []struct {
		name     string
		tokenIn  common.Address
		tokenOut common.Address
		want     []common.Address
	}{
		{"native_to_token", native, usdc, []common.Address{wnative, usdc}},
		{"token_to_native", usdc, native, []common.Address{usdc, wnative}},
		{"wrapped_to_token", wnative, usdc, []common.Address{wnative, usdc}},
		{"token_to_token_via_hub", usdc, dai, []common.Address{usdc, wnative, dai}},
		{"native_to_wrapped_collapses", native, wnative, nil},
		{"wrapped_to_native_collapses", wnative, native, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPath(tt.tokenIn, tt.tokenOut, wnative)
			if len(got) != len(tt.want) {
				t.Fatalf("BuildPath() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("BuildPath()[%d] = %s, want %s", i, got[i].Hex(), tt.want[i].Hex())
				}
			}
		})
	}
}

func TestQuote_Clone(t *testing.T) {
	amountIn := asset.NewAmount(asset.WETH, big.NewInt(1_000_000_000_000_000_000))
	amountOut := asset.NewAmount(asset.USDC, big.NewInt(3_000_000_000))

	q := &Quote{
		TokenIn:   asset.WETH,
		TokenOut:  asset.USDC,
		AmountIn:  amountIn,
		AmountOut: amountOut,
		Path:      []common.Address{asset.AddrWETHEthereum, asset.AddrUSDCEthereum},
		ImpactBps: 42,
	}

	clone := q.Clone()

	if clone == q {
		t.Fatal("Clone returned the same pointer")
	}
	if &clone.Path[0] == &q.Path[0] {
		t.Error("Clone shares the path backing array")
	}

	clone.Path[0] = common.Address{}
	clone.ImpactBps = 9999
	if q.Path[0] != asset.AddrWETHEthereum {
		t.Error("mutating clone path affected original")
	}
	if q.ImpactBps != 42 {
		t.Error("mutating clone affected original")
	}
}
