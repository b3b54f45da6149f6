package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	executionDomain "github.com/fbellman/swapdesk/business/execution/domain"
)

// Summary is the outcome of one batch run. Results is index-aligned
// with the submitted requests regardless of completion order.
type Summary struct {
	BatchID  uuid.UUID
	Strategy Strategy

	Results []*executionDomain.TradeResult

	Successful int
	Failed     int

	TotalGasUsed uint64
	TotalGasCost *big.Int // wei, submitted trades only

	StartedAt  time.Time
	FinishedAt time.Time
}

// NewSummary creates an empty summary for a run of n trades.
func NewSummary(id uuid.UUID, strategy Strategy, n int) *Summary {
	return &Summary{
		BatchID:      id,
		Strategy:     strategy,
		Results:      make([]*executionDomain.TradeResult, n),
		TotalGasCost: big.NewInt(0),
		StartedAt:    time.Now(),
	}
}

// Finalize tallies the results and stamps the finish time.
func (s *Summary) Finalize() {
	s.FinishedAt = time.Now()
	s.Successful = 0
	s.Failed = 0
	s.TotalGasUsed = 0
	s.TotalGasCost = big.NewInt(0)

	for _, res := range s.Results {
		if res == nil {
			s.Failed++
			continue
		}
		if res.Success {
			s.Successful++
		} else {
			s.Failed++
		}
		s.TotalGasUsed += res.GasUsed
		s.TotalGasCost.Add(s.TotalGasCost, res.GasCost())
	}
}

// Duration returns the wall time of the whole batch.
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() || s.StartedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// GasCostNative converts the total gas spend from wei to whole native
// units for display.
func (s *Summary) GasCostNative() decimal.Decimal {
	if s.TotalGasCost == nil || s.TotalGasCost.Sign() == 0 {
		return decimal.Zero
	}
	wei := decimal.NewFromBigInt(s.TotalGasCost, 0)
	return wei.Shift(-18)
}
