// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// TradeRow represents one trade of the running batch.
type TradeRow struct {
	Index     int
	Wallet    string
	Pair      string
	AmountIn  string
	AmountOut string
	TxHash    string
	State     string
	ErrorCode string
	DryRun    bool

	Started bool
	Done    bool
	Success bool

	StartedAt  time.Time
	FinishedAt time.Time
}

// TradesComponent renders the batch trade table.
type TradesComponent struct {
	rows    []TradeRow
	offset  int
	visible int
}

// NewTradesComponent creates a trade table for a batch of total trades.
func NewTradesComponent(total, visible int) *TradesComponent {
	c := &TradesComponent{visible: visible}
	c.Reset(total)
	return c
}

// Reset sizes the table for a new batch.
func (c *TradesComponent) Reset(total int) {
	c.rows = make([]TradeRow, total)
	for i := range c.rows {
		c.rows[i] = TradeRow{Index: i, State: "pending"}
	}
	c.offset = 0
}

// Start marks the trade at index as in flight.
func (c *TradesComponent) Start(index int, row TradeRow) {
	if index < 0 || index >= len(c.rows) {
		return
	}
	row.Index = index
	row.Started = true
	if row.StartedAt.IsZero() {
		row.StartedAt = time.Now()
	}
	c.rows[index] = row
}

// Finish records the terminal result for the trade at index.
func (c *TradesComponent) Finish(index int, row TradeRow) {
	if index < 0 || index >= len(c.rows) {
		return
	}
	prev := c.rows[index]
	row.Index = index
	row.Started = true
	row.Done = true
	row.StartedAt = prev.StartedAt
	if row.FinishedAt.IsZero() {
		row.FinishedAt = time.Now()
	}
	if row.Wallet == "" {
		row.Wallet = prev.Wallet
	}
	if row.Pair == "" {
		row.Pair = prev.Pair
	}
	c.rows[index] = row
}

// Counts returns how many trades are done, and of those, how many
// succeeded and failed.
func (c *TradesComponent) Counts() (done, success, failed int) {
	for _, row := range c.rows {
		if !row.Done {
			continue
		}
		done++
		if row.Success {
			success++
		} else {
			failed++
		}
	}
	return done, success, failed
}

// Total returns the batch size.
func (c *TradesComponent) Total() int {
	return len(c.rows)
}

// ScrollUp moves the viewport up one row.
func (c *TradesComponent) ScrollUp() {
	if c.offset > 0 {
		c.offset--
	}
}

// ScrollDown moves the viewport down one row.
func (c *TradesComponent) ScrollDown() {
	if c.offset < len(c.rows)-c.visible {
		c.offset++
	}
}

// View renders the trade table.
func (c *TradesComponent) View() string {
	if len(c.rows) == 0 {
		return "No trades loaded yet..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	runningStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	done, _, _ := c.Counts()
	result := headerStyle.Render(fmt.Sprintf("TRADES (%d/%d done)\n", done, len(c.rows)))
	result += "┌─────┬──────────────┬─────────────┬──────────────┬──────────────┬──────────────────┐\n"
	result += "│  #  │    Wallet    │    Pair     │      In      │     Out      │      Status      │\n"
	result += "├─────┼──────────────┼─────────────┼──────────────┼──────────────┼──────────────────┤\n"

	end := c.offset + c.visible
	if end > len(c.rows) {
		end = len(c.rows)
	}

	for _, row := range c.rows[c.offset:end] {
		var status string
		switch {
		case row.Done && row.Success:
			label := "Confirmed"
			if row.DryRun {
				label = "Simulated"
			}
			status = successStyle.Render("✓ " + label)
		case row.Done:
			code := row.ErrorCode
			if code == "" {
				code = "Failed"
			}
			status = failedStyle.Render("✗ " + code)
		case row.Started:
			status = runningStyle.Render("⟳ " + row.State)
		default:
			status = mutedStyle.Render("○ pending")
		}

		result += fmt.Sprintf("│%4d │%13s │%12s │%13s │%13s │ %-25s│\n",
			row.Index,
			truncate(row.Wallet, 13),
			truncate(row.Pair, 12),
			truncate(row.AmountIn, 13),
			truncate(row.AmountOut, 13),
			status,
		)
	}

	result += "└─────┴──────────────┴─────────────┴──────────────┴──────────────┴──────────────────┘"

	if len(c.rows) > c.visible {
		result += mutedStyle.Render(fmt.Sprintf("\n  showing %d-%d of %d (↑↓ to scroll)", c.offset+1, end, len(c.rows)))
	}

	return result
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 2 {
		return s[:max]
	}
	return s[:max-2] + ".."
}
