// Package infra contains infrastructure adapters for the batch context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/fbellman/swapdesk/business/batch/domain"
	executionDomain "github.com/fbellman/swapdesk/business/execution/domain"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "Swap Desk Started")
	fmt.Fprintln(r.out, "=================")
	return nil
}

// BatchStarted announces a new batch run.
func (r *ConsoleReporter) BatchStarted(id uuid.UUID, strategy domain.Strategy, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "")
	fmt.Fprintf(r.out, "Batch %s: %d trade(s), strategy %s\n", id, total, strategy)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
}

// TradeStarted announces a trade entering execution.
func (r *ConsoleReporter) TradeStarted(index int, req executionDomain.TradeRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mode := "live"
	if req.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(r.out, "[%s] #%02d started  wallet=%s %s -> %s (%s)\n",
		time.Now().Format("15:04:05"), index,
		shortAddr(req.Wallet.Hex()), shortAddr(req.TokenIn.Hex()), shortAddr(req.TokenOut.Hex()), mode)
}

// TradeFinished outputs a trade's terminal result.
func (r *ConsoleReporter) TradeFinished(index int, res *executionDomain.TradeResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := time.Now().Format("15:04:05")
	if res.Success {
		line := fmt.Sprintf("[%s] #%02d OK       %s -> %s", ts, index, res.AmountIn, res.AmountOut)
		if res.TxHash != (common.Hash{}) {
			line += " tx=" + shortAddr(res.TxHash.Hex())
		}
		fmt.Fprintln(r.out, line)
		return
	}
	fmt.Fprintf(r.out, "[%s] #%02d FAILED   state=%s code=%s %s\n",
		ts, index, res.State, res.ErrorCode, res.ErrorMessage)
}

// BatchFinished outputs the batch summary.
func (r *ConsoleReporter) BatchFinished(s *domain.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "BATCH %s COMPLETE\n", s.BatchID)
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Trades:         %d\n", len(s.Results))
	fmt.Fprintf(r.out, "Successful:     %d\n", s.Successful)
	fmt.Fprintf(r.out, "Failed:         %d\n", s.Failed)
	fmt.Fprintf(r.out, "Duration:       %s\n", s.Duration().Round(time.Millisecond))
	fmt.Fprintf(r.out, "Gas used:       %d\n", s.TotalGasUsed)
	fmt.Fprintf(r.out, "Gas cost:       %s native\n", s.GasCostNative().StringFixed(6))
	fmt.Fprintln(r.out, "================================================================================")
}

// UpdateBlock outputs nothing; block heights are noise on a console run.
func (r *ConsoleReporter) UpdateBlock(head *executionDomain.Head) {}

// UpdateGasPrice outputs nothing in console mode.
func (r *ConsoleReporter) UpdateGasPrice(gwei float64) {}

// UpdateConnection outputs connection state changes.
func (r *ConsoleReporter) UpdateConnection(status executionDomain.ConnectionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "[%s] chain: %s (block #%d)\n",
		time.Now().Format("15:04:05"), status.State, status.LastBlock)
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Swap Desk Stopped")
	return nil
}

func shortAddr(hex string) string {
	if len(hex) <= 12 {
		return hex
	}
	return hex[:8] + ".." + hex[len(hex)-4:]
}
