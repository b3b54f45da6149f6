package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ChainStatus represents the chain connection for display.
type ChainStatus struct {
	State      string // "connected", "connecting", "reconnecting", "disconnected"
	LastBlock  uint64
	Reconnects int
	UsingHTTP  bool
	LastUpdate time.Time
}

// StatusComponent renders the chain connection status.
type StatusComponent struct {
	status ChainStatus
	set    bool
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{}
}

// Update replaces the displayed status.
func (s *StatusComponent) Update(status ChainStatus) {
	s.status = status
	s.set = true
}

// View renders the status component.
func (s *StatusComponent) View() string {
	if !s.set {
		return "○ chain: waiting"
	}

	var style lipgloss.Style
	var icon string
	switch s.status.State {
	case "connected":
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
		icon = "●"
	case "connecting", "reconnecting":
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
		icon = "◐"
	default:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
		icon = "○"
	}

	line := fmt.Sprintf("%s chain: %s", icon, s.status.State)
	if s.status.UsingHTTP {
		line += " (http polling)"
	}
	if s.status.LastBlock > 0 {
		line += fmt.Sprintf(" #%d", s.status.LastBlock)
	}
	if s.status.Reconnects > 0 {
		line += fmt.Sprintf(" reconnects=%d", s.status.Reconnects)
	}
	return style.Render(line)
}
