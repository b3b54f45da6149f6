package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Summary holds the final batch figures for display.
type Summary struct {
	BatchID    string
	Strategy   string
	Total      int
	Successful int
	Failed     int
	Duration   time.Duration
	GasUsed    uint64
	GasCost    string // in native units
}

// SummaryComponent renders the end-of-batch summary.
type SummaryComponent struct {
	summary Summary
	set     bool
}

// NewSummaryComponent creates a new summary component.
func NewSummaryComponent() *SummaryComponent {
	return &SummaryComponent{}
}

// Update stores the batch summary.
func (s *SummaryComponent) Update(summary Summary) {
	s.summary = summary
	s.set = true
}

// Ready reports whether a summary has been received.
func (s *SummaryComponent) Ready() bool {
	return s.set
}

// View renders the summary component.
func (s *SummaryComponent) View() string {
	if !s.set {
		return "Waiting for batch to finish..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	failedDisplay := valueStyle.Render(fmt.Sprintf("%d", s.summary.Failed))
	if s.summary.Failed > 0 {
		failedDisplay = failedStyle.Render(fmt.Sprintf("%d", s.summary.Failed))
	}

	successRate := float64(0)
	if s.summary.Total > 0 {
		successRate = float64(s.summary.Successful) / float64(s.summary.Total) * 100
	}

	return headerStyle.Render("BATCH SUMMARY") + "\n\n" +
		fmt.Sprintf("%s %s\n", labelStyle.Render("Batch:   "), valueStyle.Render(s.summary.BatchID)) +
		fmt.Sprintf("%s %s\n", labelStyle.Render("Strategy:"), valueStyle.Render(s.summary.Strategy)) +
		fmt.Sprintf("%s %s  │  %s %s (%.1f%%)  │  %s %s\n",
			labelStyle.Render("Trades:"), valueStyle.Render(fmt.Sprintf("%d", s.summary.Total)),
			labelStyle.Render("Successful:"), successStyle.Render(fmt.Sprintf("%d", s.summary.Successful)), successRate,
			labelStyle.Render("Failed:"), failedDisplay,
		) +
		fmt.Sprintf("%s %s  │  %s %s  │  %s %s native\n",
			labelStyle.Render("Duration:"), valueStyle.Render(s.summary.Duration.Round(time.Millisecond).String()),
			labelStyle.Render("Gas used:"), valueStyle.Render(fmt.Sprintf("%d", s.summary.GasUsed)),
			labelStyle.Render("Gas cost:"), valueStyle.Render(s.summary.GasCost),
		)
}
