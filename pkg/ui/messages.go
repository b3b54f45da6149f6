// Package ui provides the Bubble Tea TUI for the swap desk.
package ui

import (
	"time"

	batchDomain "github.com/fbellman/swapdesk/business/batch/domain"
	executionDomain "github.com/fbellman/swapdesk/business/execution/domain"
)

// Message types for TUI updates

// BatchStartedMsg is sent when a batch run begins.
type BatchStartedMsg struct {
	ID       string
	Strategy string
	Total    int
}

// TradeStartedMsg is sent when a trade enters execution.
type TradeStartedMsg struct {
	Index   int
	Request executionDomain.TradeRequest
}

// TradeResultMsg is sent when a trade reaches a terminal state.
type TradeResultMsg struct {
	Index  int
	Result *executionDomain.TradeResult
}

// BatchFinishedMsg is sent with the finalized batch summary.
type BatchFinishedMsg struct {
	Summary *batchDomain.Summary
}

// BlockMsg is sent when a new chain head is received.
type BlockMsg struct {
	Number    uint64
	Timestamp time.Time
}

// GasPriceMsg is sent when the gas price is updated.
type GasPriceMsg struct {
	GweiPrice float64
}

// ConnectionStatusMsg is sent when the chain connection state changes.
type ConnectionStatusMsg struct {
	Status executionDomain.ConnectionStatus
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // Current step name
	Status  string // "connecting", "connected", "failed"
	Message string // Optional message
}
