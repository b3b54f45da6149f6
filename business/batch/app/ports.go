// Package app contains application services and port definitions for the batch context.
package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/fbellman/swapdesk/business/batch/domain"
	executionDomain "github.com/fbellman/swapdesk/business/execution/domain"
)

// TradeRunner executes a single trade to a terminal result. Satisfied
// by the execution context's trade executor.
type TradeRunner interface {
	Execute(ctx context.Context, req executionDomain.TradeRequest) *executionDomain.TradeResult
}

// Reporter receives batch progress for display or logging.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// BatchStarted announces a new batch run.
	BatchStarted(id uuid.UUID, strategy domain.Strategy, total int)

	// TradeStarted announces that the trade at the given request index
	// entered execution.
	TradeStarted(index int, req executionDomain.TradeRequest)

	// TradeFinished delivers the terminal result for a request index.
	TradeFinished(index int, result *executionDomain.TradeResult)

	// BatchFinished delivers the finalized summary.
	BatchFinished(summary *domain.Summary)

	// UpdateBlock updates the chain head display.
	UpdateBlock(head *executionDomain.Head)

	// UpdateGasPrice updates the gas price display.
	UpdateGasPrice(gwei float64)

	// UpdateConnection updates the chain connection display.
	UpdateConnection(status executionDomain.ConnectionStatus)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
