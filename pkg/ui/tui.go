package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arbx/arbitrageur/internal/unit"
	"github.com/arbx/arbitrageur/pkg/ui/components"
)

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	keys KeyMap

	// Components
	venues        *components.VenuesComponent
	opportunities *components.OpportunitiesComponent
	stats         *components.StatsComponent

	// State
	ready      bool
	quitting   bool
	paused     bool
	width      int
	height     int
	lastUpdate time.Time
	errors     []ErrorEntry // Persistent error panel (last 3)
	logs       []string     // Recent log messages

	// Round tracking
	rounds        int64
	totalOpps     int64
	totalErrors   int64
	lastRound     RoundMsg
	venueStatuses map[string]bool
}

// New creates a new TUI model.
func New() Model {
	return Model{
		keys:          DefaultKeyMap(),
		venues:        components.NewVenuesComponent(),
		opportunities: components.NewOpportunitiesComponent(30),
		stats:         components.NewStatsComponent(),
		errors:        make([]ErrorEntry, 0, 3),
		logs:          make([]string, 0, 5),
		venueStatuses: make(map[string]bool),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			m.opportunities.Clear()
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		return m, tickCmd()

	case OpportunityMsg:
		if msg.Opportunity != nil && !m.paused {
			opp := msg.Opportunity
			m.opportunities.Add(components.OpportunityRow{
				Timestamp: opp.Timestamp,
				BuyVenue:  opp.BuyVenue,
				SellVenue: opp.SellVenue,
				BuyPrice:  unit.CentsToDollars(opp.WeightedBuyPrice),
				SellPrice: unit.CentsToDollars(opp.WeightedSellPrice),
				Amount:    unit.SatoshisToCoins(opp.Amount),
				Profit:    unit.NotionalToDollars(opp.Profit()),
				Rate:      opp.ProfitRate(),
			})
			m.totalOpps++
			m.lastUpdate = time.Now()
		}

	case VenueStatusMsg:
		m.venueStatuses[msg.Venue] = msg.Available
		m.venues.Update(components.VenueStatus{
			Name:       msg.Venue,
			Available:  msg.Available,
			Latency:    msg.Latency,
			LastUpdate: time.Now(),
		})
		if !msg.Available {
			m.totalErrors++
		}
		m.lastUpdate = time.Now()

	case RoundMsg:
		m.rounds = msg.Round
		m.lastRound = msg
		m.stats.Update(components.Stats{
			Rounds:        m.rounds,
			Venues:        msg.Venues,
			Books:         msg.Books,
			Opportunities: m.totalOpps,
			LastElapsed:   msg.Elapsed,
			Errors:        m.totalErrors,
		})
		m.lastUpdate = time.Now()

	case ErrorMsg:
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)
	}

	return m, nil
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logs = append(logs, fmt.Sprintf("[%s] %s: %s", timestamp, level, message))
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
	if !m.ready {
		return "\n  Loading..."
	}

	var b strings.Builder

	title := TitleStyle.Render(" ₿ BTC Arbitrageur ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	// Main content: venues + stats on left, opportunities on right
	var leftContent strings.Builder
	leftContent.WriteString(HeaderStyle.Render("VENUES"))
	leftContent.WriteString("\n")
	leftContent.WriteString(m.venues.View())
	leftContent.WriteString("\n")
	leftContent.WriteString(m.stats.View())
	leftCol := leftContent.String()

	rightCol := m.opportunities.View()

	if m.width > 100 {
		left := BoxStyle.Width(m.width/3 - 2).Render(leftCol)
		right := BoxStyle.Width(2*m.width/3 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")

	// Persistent error panel (last 3)
	if len(m.errors) > 0 {
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (c: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(NegativeValue.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.paused {
		pauseStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
		b.WriteString(pauseStyle.Render("⏸ PAUSED"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render("q: quit • c: clear • p: pause"))

	return b.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Round: #%d", m.rounds))

	up := 0
	for _, available := range m.venueStatuses {
		if available {
			up++
		}
	}
	venueStr := fmt.Sprintf("● %d/%d venues up", up, len(m.venueStatuses))
	if up == len(m.venueStatuses) && up > 0 {
		parts = append(parts, StatusUp.Render(venueStr))
	} else {
		parts = append(parts, StatusDown.Render(venueStr))
	}

	if m.totalOpps > 0 {
		parts = append(parts, PositiveValue.Render(fmt.Sprintf("Opportunities: %d", m.totalOpps)))
	}

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

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
}
