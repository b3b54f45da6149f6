package infra

import (
	"context"

	"github.com/google/uuid"

	"github.com/fbellman/swapdesk/business/batch/domain"
	executionDomain "github.com/fbellman/swapdesk/business/execution/domain"
	"github.com/fbellman/swapdesk/pkg/ui"
)

// TUIReporter implements Reporter by forwarding progress to the
// Bubble Tea program. The program itself is owned and run by main.
type TUIReporter struct{}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{}
}

// Start initializes the TUI reporter.
func (r *TUIReporter) Start(ctx context.Context) error {
	return nil
}

// BatchStarted forwards the batch header to the TUI.
func (r *TUIReporter) BatchStarted(id uuid.UUID, strategy domain.Strategy, total int) {
	ui.Send(ui.BatchStartedMsg{
		ID:       id.String(),
		Strategy: string(strategy),
		Total:    total,
	})
}

// TradeStarted forwards a trade launch to the TUI.
func (r *TUIReporter) TradeStarted(index int, req executionDomain.TradeRequest) {
	ui.Send(ui.TradeStartedMsg{Index: index, Request: req})
}

// TradeFinished forwards a terminal trade result to the TUI.
func (r *TUIReporter) TradeFinished(index int, res *executionDomain.TradeResult) {
	ui.Send(ui.TradeResultMsg{Index: index, Result: res})
}

// BatchFinished forwards the summary to the TUI.
func (r *TUIReporter) BatchFinished(s *domain.Summary) {
	ui.Send(ui.BatchFinishedMsg{Summary: s})
}

// UpdateBlock forwards a new chain head to the TUI.
func (r *TUIReporter) UpdateBlock(head *executionDomain.Head) {
	ui.Send(ui.BlockMsg{Number: head.Number, Timestamp: head.Timestamp})
}

// UpdateGasPrice forwards the current gas price to the TUI.
func (r *TUIReporter) UpdateGasPrice(gwei float64) {
	ui.Send(ui.GasPriceMsg{GweiPrice: gwei})
}

// UpdateConnection forwards the chain connection state to the TUI.
func (r *TUIReporter) UpdateConnection(status executionDomain.ConnectionStatus) {
	ui.Send(ui.ConnectionStatusMsg{Status: status})
}

// Stop gracefully shuts down the TUI reporter.
func (r *TUIReporter) Stop() error {
	return nil
}
