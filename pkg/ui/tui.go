package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"

	executionDomain "github.com/fbellman/swapdesk/business/execution/domain"
	"github.com/fbellman/swapdesk/pkg/ui/components"
)

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome Phase = "welcome" // Initial welcome screen
	PhaseStartup Phase = "startup" // Loading/connecting
	PhaseRunning Phase = "running" // Batch in progress
	PhaseSummary Phase = "summary" // Batch finished
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// visibleTradeRows is how many trades the table shows at once.
const visibleTradeRows = 12

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	trades  *components.TradesComponent
	summary *components.SummaryComponent
	status  *components.StatusComponent

	keys KeyMap

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// Batch state
	batchID  string
	strategy string
	inFlight int

	// State
	ready        bool
	quitting     bool
	width        int
	height       int
	currentBlock uint64
	gasPrice     float64
	lastUpdate   time.Time
	errors       []ErrorEntry // Persistent error panel (last 3)
	logs         []string     // Recent log messages

	// Startup state
	startupComplete bool
	startupSteps    map[string]*StartupStep
	startupTime     time.Time
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	return Model{
		trades:       components.NewTradesComponent(0, visibleTradeRows),
		summary:      components.NewSummaryComponent(),
		status:       components.NewStatusComponent(),
		keys:         DefaultKeyMap(),
		phase:        PhaseWelcome,
		welcomeStart: now,
		logs:         make([]string, 0, 10),
		errors:       make([]ErrorEntry, 0, 3),
		startupSteps: map[string]*StartupStep{
			"config":   {Name: "Loading configuration", Status: "pending"},
			"ethereum": {Name: "Connecting to Ethereum", Status: "pending"},
			"wallets":  {Name: "Unlocking wallets", Status: "pending"},
			"batch":    {Name: "Loading batch file", Status: "pending"},
		},
		startupTime: now,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always allow quit
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to startup
		if m.phase == PhaseWelcome {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			// Trigger callback directly (don't use Send() from within Update)
			if OnStartModules != nil {
				go OnStartModules()
			}
			return m, tickCmd()
		}
		// Normal key handling
		switch {
		case key.Matches(msg, m.keys.ScrollUp):
			m.trades.ScrollUp()
			return m, nil
		case key.Matches(msg, m.keys.ScrollDown):
			m.trades.ScrollDown()
			return m, nil
		case key.Matches(msg, m.keys.ClearErrors):
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		// Check if welcome timeout has elapsed
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			// Trigger callback directly (don't use Send() from within Update)
			if OnStartModules != nil {
				go OnStartModules()
			}
		}
		return m, tickCmd()

	case BatchStartedMsg:
		m.batchID = msg.ID
		m.strategy = msg.Strategy
		m.trades.Reset(msg.Total)
		m.phase = PhaseRunning
		m.lastUpdate = time.Now()

	case TradeStartedMsg:
		m.trades.Start(msg.Index, components.TradeRow{
			Wallet: shortHex(msg.Request.Wallet.Hex()),
			Pair:   pairLabel(msg.Request),
			DryRun: msg.Request.DryRun,
			State:  "executing",
		})
		m.inFlight++
		m.lastUpdate = time.Now()

	case TradeResultMsg:
		if msg.Result != nil {
			m.trades.Finish(msg.Index, tradeRowFromResult(msg.Result))
			if m.inFlight > 0 {
				m.inFlight--
			}
			m.lastUpdate = time.Now()
		}

	case BatchFinishedMsg:
		if msg.Summary != nil {
			s := msg.Summary
			m.summary.Update(components.Summary{
				BatchID:    s.BatchID.String(),
				Strategy:   string(s.Strategy),
				Total:      len(s.Results),
				Successful: s.Successful,
				Failed:     s.Failed,
				Duration:   s.Duration(),
				GasUsed:    s.TotalGasUsed,
				GasCost:    s.GasCostNative().StringFixed(6),
			})
			m.phase = PhaseSummary
			m.lastUpdate = time.Now()
		}

	case BlockMsg:
		m.currentBlock = msg.Number
		m.lastUpdate = time.Now()

	case GasPriceMsg:
		m.gasPrice = msg.GweiPrice
		m.lastUpdate = time.Now()

	case ConnectionStatusMsg:
		m.status.Update(components.ChainStatus{
			State:      string(msg.Status.State),
			LastBlock:  msg.Status.LastBlock,
			Reconnects: msg.Status.Reconnects,
			UsingHTTP:  msg.Status.UsingHTTP,
			LastUpdate: msg.Status.LastUpdate,
		})
		m.lastUpdate = time.Now()

		// A live chain connection completes the ethereum startup step.
		if step, ok := m.startupSteps["ethereum"]; ok {
			if msg.Status.State == executionDomain.StateConnected {
				step.Status = "connected"
			} else {
				step.Status = "connecting"
			}
		}

	case ErrorMsg:
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		// Add to persistent errors (keep last 3)
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		// Check if all steps are complete
		allReady := true
		for _, step := range m.startupSteps {
			if step.Status != "connected" && step.Status != "done" {
				allReady = false
				break
			}
		}
		if allReady {
			m.startupComplete = true
		}
	}

	return m, nil
}

func tradeRowFromResult(res *executionDomain.TradeResult) components.TradeRow {
	row := components.TradeRow{
		Wallet:    shortHex(res.Wallet.Hex()),
		State:     string(res.State),
		ErrorCode: string(res.ErrorCode),
		Success:   res.Success,
	}
	if res.Quote != nil {
		row.Pair = res.Quote.Pair
	}
	if res.AmountIn.Asset() != nil {
		row.AmountIn = res.AmountIn.String()
	}
	if res.AmountOut.Asset() != nil {
		row.AmountOut = res.AmountOut.String()
	}
	if res.TxHash != (common.Hash{}) {
		row.TxHash = shortHex(res.TxHash.Hex())
	}
	row.DryRun = res.Success && res.TxHash == (common.Hash{})
	return row
}

func pairLabel(req executionDomain.TradeRequest) string {
	in := "native"
	if req.TokenIn != (common.Address{}) {
		in = shortHex(req.TokenIn.Hex())
	}
	out := "native"
	if req.TokenOut != (common.Address{}) {
		out = shortHex(req.TokenOut.Hex())
	}
	return in + "→" + out
}

func shortHex(hex string) string {
	if len(hex) <= 10 {
		return hex
	}
	return hex[:6] + ".." + hex[len(hex)-4:]
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	// Phase-based rendering
	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		// Show startup until the batch begins
		if !m.startupComplete {
			return m.renderStartupScreen()
		}
	case PhaseRunning, PhaseSummary:
	}

	var b strings.Builder

	// Title
	title := TitleStyle.Render(" 💱 Swap Desk ")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Status bar
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	// Trade table
	width := m.width
	if width < 40 {
		width = 100
	}
	b.WriteString(BoxStyle.Width(width - 4).Render(m.trades.View()))
	b.WriteString("\n")

	// Summary below the table once the batch is done
	if m.phase == PhaseSummary && m.summary.Ready() {
		b.WriteString(BoxStyle.Width(width - 4).Render(m.summary.View()))
		b.WriteString("\n")
	}

	// Recent logs
	if len(m.logs) > 0 {
		b.WriteString(m.renderLogs())
		b.WriteString("\n")
	}

	// Persistent error panel (show last 3 errors)
	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedError := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Help
	helpText := "q: quit • ↑↓: scroll • e: clear errors"
	if m.phase == PhaseSummary {
		helpText = "q: quit • ↑↓: scroll results"
	}
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

// renderLogs renders the recent log lines.
func (m Model) renderLogs() string {
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	for _, line := range m.logs {
		sb.WriteString(mutedStyle.Render("  " + line))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED"))

	goldStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F59E0B"))

	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	greenStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	// Animated dots based on time
	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder

	// Center the content vertically
	sb.WriteString("\n\n\n\n")

	// ASCII art logo
	logo := `
   ███████╗██╗    ██╗ █████╗ ██████╗     ██████╗ ███████╗███████╗██╗  ██╗
   ██╔════╝██║    ██║██╔══██╗██╔══██╗    ██╔══██╗██╔════╝██╔════╝██║ ██╔╝
   ███████╗██║ █╗ ██║███████║██████╔╝    ██║  ██║█████╗  ███████╗█████╔╝
   ╚════██║██║███╗██║██╔══██║██╔═══╝     ██║  ██║██╔══╝  ╚════██║██╔═██╗
   ███████║╚███╔███╔╝██║  ██║██║         ██████╔╝███████╗███████║██║  ██╗
   ╚══════╝ ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝         ╚═════╝ ╚══════╝╚══════╝╚═╝  ╚═╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	// Subtitle
	subtitle := "                  A M M   B A T C H   T R A D E R"
	sb.WriteString(mutedStyle.Render(subtitle))
	sb.WriteString("\n\n\n")

	// Tagline with gold styling
	tagline := "                 💱  Quote, approve, swap, confirm  💱"
	sb.WriteString(goldStyle.Render(tagline))
	sb.WriteString("\n\n\n")

	// Loading indicator
	loading := fmt.Sprintf("                     Initializing%s", dots)
	sb.WriteString(greenStyle.Render(loading))
	sb.WriteString("\n\n")

	// Skip hint
	hint := "               Press any key to skip, or wait..."
	sb.WriteString(mutedStyle.Render(hint))
	sb.WriteString("\n")

	return sb.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		MarginBottom(1)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF"))

	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	connectingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  💱 Swap Desk"))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	// Show startup steps in order
	stepOrder := []string{"config", "ethereum", "wallets", "batch"}
	for _, stepKey := range stepOrder {
		step, ok := m.startupSteps[stepKey]
		if !ok {
			continue
		}

		var icon, statusText string
		var style lipgloss.Style

		switch step.Status {
		case "connected", "done":
			icon = "✓"
			statusText = "Ready"
			style = successStyle
		case "connecting":
			// Animated spinner based on time
			spinners := []string{"◐", "◓", "◑", "◒"}
			idx := int(time.Since(m.startupTime).Milliseconds()/200) % len(spinners)
			icon = spinners[idx]
			statusText = "Working..."
			style = connectingStyle
		case "failed":
			icon = "✗"
			statusText = "Failed"
			style = failedStyle
		default:
			icon = "○"
			statusText = "Pending"
			style = mutedStyle
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			style.Render(icon),
			mutedStyle.Render(step.Name),
			style.Render(statusText),
		))
	}

	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n\n")

	sb.WriteString(mutedStyle.Render("  Waiting for the batch to start..."))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	// In-flight indicator (animated while trades run)
	if m.inFlight > 0 {
		spinners := []string{"⟳", "◐", "◓", "◑", "◒"}
		idx := int(time.Now().UnixMilli()/100) % len(spinners)
		runningStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
		parts = append(parts, runningStyle.Render(fmt.Sprintf("%s %d in flight", spinners[idx], m.inFlight)))
	}

	// Batch identity
	if m.batchID != "" {
		parts = append(parts, MutedValue.Render("Batch: "+shortHex(m.batchID)+" ("+m.strategy+")"))
	}

	// Block number
	if m.currentBlock > 0 {
		parts = append(parts, fmt.Sprintf("Block: #%d", m.currentBlock))
	}

	// Gas price
	if m.gasPrice > 0 {
		parts = append(parts, fmt.Sprintf("Gas: %.1f gwei", m.gasPrice))
	}

	// Connection status
	parts = append(parts, m.status.View())

	// Last update with activity indicator
	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		indicator := ""
		if ago < 2*time.Second {
			indicator = "▪" // Recent activity indicator
		}
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago %s", ago, indicator)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules should start.
// This is set by main.go to signal when to begin loading modules.
var OnStartModules func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	// Call OnStartModules callback when StartModulesMsg is sent
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
