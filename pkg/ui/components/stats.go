package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds polling statistics for display.
type Stats struct {
	Rounds        int64
	Venues        int
	Books         int
	Opportunities int64
	LastElapsed   time.Duration
	Errors        int64
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	if s.stats.Errors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Rounds: %s  │  Books: %s/%s  │  Opportunities: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Rounds)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Books)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Venues)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Opportunities)),
		) +
		fmt.Sprintf("Last round: %s  │  Errors: %s",
			valueStyle.Render(s.stats.LastElapsed.Round(time.Millisecond).String()),
			errorsDisplay,
		)
}
