package domain

import (
	"math/big"
	"testing"
)

func TestClassifyImpact(t *testing.T) {
	tests := []struct {
		name string
		bps  int64
		want ImpactBand
	}{
		{"zero_is_minimal", 0, BandMinimal},
		{"nine_is_minimal", 9, BandMinimal},
		{"ten_is_low", 10, BandLow},
		{"ninety_nine_is_low", 99, BandLow},
		{"hundred_is_medium", 100, BandMedium},
		{"two_ninety_nine_is_medium", 299, BandMedium},
		{"three_hundred_is_high", 300, BandHigh},
		{"four_ninety_nine_is_high", 499, BandHigh},
		{"five_hundred_is_very_high", 500, BandVeryHigh},
		{"extreme_is_very_high", 9000, BandVeryHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyImpact(tt.bps); got != tt.want {
				t.Errorf("ClassifyImpact(%d) = %v, want %v", tt.bps, got, tt.want)
			}
		})
	}
}

func TestImpactBand_BaseSlippageBps(t *testing.T) {
	tests := []struct {
		band ImpactBand
		want int64
	}{
		{BandMinimal, 30},
		{BandLow, 60},
		{BandMedium, 120},
		{BandHigh, 250},
		{BandVeryHigh, 400},
	}

	for _, tt := range tests {
		t.Run(string(tt.band), func(t *testing.T) {
			if got := tt.band.BaseSlippageBps(); got != tt.want {
				t.Errorf("BaseSlippageBps() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculatePriceImpact(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     int64
	}{
		{"no_impact", "1000000", "1000000", 0},
		{"actual_above_expected_clamps_to_zero", "1000000", "1100000", 0},
		{"one_percent", "1000000", "990000", 100},
		{"half_percent", "1000000", "995000", 50},
		{"five_percent", "1000000", "950000", 500},
		{"total_loss", "1000000", "0", 10000},
		{"zero_expected", "0", "100", 0},
		{"rounds_down", "30000", "29999", 0}, // 0.33 bps floors to 0
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected, _ := new(big.Int).SetString(tt.expected, 10)
			actual, _ := new(big.Int).SetString(tt.actual, 10)

			if got := CalculatePriceImpact(expected, actual); got != tt.want {
				t.Errorf("CalculatePriceImpact(%s, %s) = %d, want %d",
					tt.expected, tt.actual, got, tt.want)
			}
		})
	}
}

func TestCalculatePriceImpact_NilActual(t *testing.T) {
	got := CalculatePriceImpact(big.NewInt(1000), nil)
	if got != 10000 {
		t.Errorf("CalculatePriceImpact(1000, nil) = %d, want 10000", got)
	}
}

func TestExpectedOut(t *testing.T) {
	tests := []struct {
		name     string
		probeIn  string
		probeOut string
		amountIn string
		want     string
	}{
		{"scales_linearly", "1000", "3000", "1000000", "3000000"},
		{"identity_at_probe_size", "1000", "3000", "1000", "3000"},
		{"floors_fraction", "3", "10", "1", "3"}, // 10/3 floors
		{"zero_probe_in", "0", "3000", "1000000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probeIn, _ := new(big.Int).SetString(tt.probeIn, 10)
			probeOut, _ := new(big.Int).SetString(tt.probeOut, 10)
			amountIn, _ := new(big.Int).SetString(tt.amountIn, 10)

			got := ExpectedOut(probeIn, probeOut, amountIn)
			if got.String() != tt.want {
				t.Errorf("ExpectedOut(%s, %s, %s) = %s, want %s",
					tt.probeIn, tt.probeOut, tt.amountIn, got, tt.want)
			}
		})
	}
}

func TestEstimateSwapGas(t *testing.T) {
	tests := []struct {
		name    string
		pathLen int
		want    uint64
	}{
		{"direct_path", 2, 120_000},
		{"one_hop", 3, 180_000},
		{"two_hops", 4, 240_000},
		{"degenerate_path", 1, 120_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateSwapGas(tt.pathLen); got != tt.want {
				t.Errorf("EstimateSwapGas(%d) = %d, want %d", tt.pathLen, got, tt.want)
			}
		})
	}
}

// Benchmark for the hot path of every quote.
func BenchmarkCalculatePriceImpact(b *testing.B) {
	expected := big.NewInt(1_000_000_000_000)
	actual := big.NewInt(987_654_321_098)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CalculatePriceImpact(expected, actual)
	}
}
