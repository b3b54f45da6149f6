// Package domain contains the core domain types for the batch context.
package domain

import (
	"time"

	"github.com/fbellman/swapdesk/internal/apperror"
)

// Strategy controls how the trades of a batch are scheduled.
type Strategy string

const (
	// StrategySequential runs trades one at a time in request order.
	StrategySequential Strategy = "sequential"

	// StrategyParallel runs trades through a bounded worker pool.
	StrategyParallel Strategy = "parallel"

	// StrategyStaggered spaces trade launches by a fixed delay. Launched
	// trades may still overlap in flight.
	StrategyStaggered Strategy = "staggered"
)

// ParseStrategy maps a config string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySequential, StrategyParallel, StrategyStaggered:
		return Strategy(s), nil
	case "":
		return StrategySequential, nil
	default:
		return "", apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("unknown batch strategy: "+s))
	}
}

// Config holds the scheduling parameters for one batch run.
type Config struct {
	Strategy      Strategy
	MaxConcurrent int
	InterOpDelay  time.Duration

	// DryRun forces every trade in the batch to simulate instead of
	// submitting, regardless of the per-request flag.
	DryRun bool
}

// Validate checks the scheduling parameters.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategySequential, StrategyParallel, StrategyStaggered:
	default:
		return apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("unknown batch strategy: "+string(c.Strategy)))
	}
	if c.Strategy != StrategySequential && c.MaxConcurrent < 1 {
		return apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("max_concurrent must be at least 1"))
	}
	if c.Strategy == StrategyStaggered && c.InterOpDelay < 0 {
		return apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("inter_op_delay must not be negative"))
	}
	return nil
}
