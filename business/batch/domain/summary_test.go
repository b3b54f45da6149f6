package domain

import (
	"math/big"
	"testing"

	"github.com/google/uuid"

	executionDomain "github.com/fbellman/swapdesk/business/execution/domain"
)

func TestSummary_Finalize(t *testing.T) {
	gwei := func(n int64) *big.Int {
		return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
	}

	tests := []struct {
		name           string
		results        []*executionDomain.TradeResult
		wantSuccessful int
		wantFailed     int
		wantGasUsed    uint64
		wantGasCostWei string
	}{
		{
			name:           "empty_batch",
			results:        nil,
			wantGasCostWei: "0",
		},
		{
			name: "all_successful",
			results: []*executionDomain.TradeResult{
				{Success: true, GasUsed: 150_000, GasPrice: gwei(20)},
				{Success: true, GasUsed: 200_000, GasPrice: gwei(20)},
			},
			wantSuccessful: 2,
			wantGasUsed:    350_000,
			wantGasCostWei: "7000000000000000", // 350000 * 20 gwei
		},
		{
			name: "mixed_outcomes",
			results: []*executionDomain.TradeResult{
				{Success: true, GasUsed: 100_000, GasPrice: gwei(30)},
				{Success: false},
				{Success: false, GasUsed: 120_000, GasPrice: gwei(30)}, // reverted but mined
			},
			wantSuccessful: 1,
			wantFailed:     2,
			wantGasUsed:    220_000,
			wantGasCostWei: "6600000000000000", // 220000 * 30 gwei
		},
		{
			name: "nil_result_counts_as_failure",
			results: []*executionDomain.TradeResult{
				{Success: true, GasUsed: 100_000, GasPrice: gwei(10)},
				nil,
			},
			wantSuccessful: 1,
			wantFailed:     1,
			wantGasUsed:    100_000,
			wantGasCostWei: "1000000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummary(uuid.New(), StrategySequential, len(tt.results))
			copy(s.Results, tt.results)

			s.Finalize()

			if s.Successful != tt.wantSuccessful {
				t.Errorf("Successful = %d, want %d", s.Successful, tt.wantSuccessful)
			}
			if s.Failed != tt.wantFailed {
				t.Errorf("Failed = %d, want %d", s.Failed, tt.wantFailed)
			}
			if s.Successful+s.Failed != len(tt.results) {
				t.Errorf("Successful+Failed = %d, want %d", s.Successful+s.Failed, len(tt.results))
			}
			if s.TotalGasUsed != tt.wantGasUsed {
				t.Errorf("TotalGasUsed = %d, want %d", s.TotalGasUsed, tt.wantGasUsed)
			}
			wantCost, _ := new(big.Int).SetString(tt.wantGasCostWei, 10)
			if s.TotalGasCost.Cmp(wantCost) != 0 {
				t.Errorf("TotalGasCost = %s, want %s", s.TotalGasCost, wantCost)
			}
			if s.FinishedAt.IsZero() {
				t.Error("FinishedAt not stamped")
			}
			if s.Duration() < 0 {
				t.Errorf("Duration = %s, want >= 0", s.Duration())
			}
		})
	}
}

func TestSummary_GasCostNative(t *testing.T) {
	s := NewSummary(uuid.New(), StrategyParallel, 1)
	s.Results[0] = &executionDomain.TradeResult{
		Success:  true,
		GasUsed:  200_000,
		GasPrice: big.NewInt(25_000_000_000), // 25 gwei
	}

	s.Finalize()

	// 200000 * 25 gwei = 0.005 native units
	if got := s.GasCostNative().String(); got != "0.005" {
		t.Errorf("GasCostNative = %s, want 0.005", got)
	}
}

func TestSummary_GasCostNative_Zero(t *testing.T) {
	s := NewSummary(uuid.New(), StrategySequential, 0)
	s.Finalize()

	if !s.GasCostNative().IsZero() {
		t.Errorf("GasCostNative = %s, want 0", s.GasCostNative())
	}
}
