package components

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// VenueStatus represents a venue's last known availability.
type VenueStatus struct {
	Name       string
	Available  bool
	Latency    time.Duration
	LastUpdate time.Time
}

// VenuesComponent renders per-venue availability.
type VenuesComponent struct {
	venues []VenueStatus
}

// NewVenuesComponent creates a new venues component.
func NewVenuesComponent() *VenuesComponent {
	return &VenuesComponent{
		venues: make([]VenueStatus, 0),
	}
}

// Update updates a venue's status, keeping the list sorted by name.
func (v *VenuesComponent) Update(status VenueStatus) {
	for i, venue := range v.venues {
		if venue.Name == status.Name {
			v.venues[i] = status
			return
		}
	}
	v.venues = append(v.venues, status)
	sort.Slice(v.venues, func(i, j int) bool {
		return v.venues[i].Name < v.venues[j].Name
	})
}

// View renders the venues component.
func (v *VenuesComponent) View() string {
	if len(v.venues) == 0 {
		return "No venues"
	}

	var result string
	for _, venue := range v.venues {
		status := "● Up"
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
		if !venue.Available {
			status = "○ Down"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
		}

		line := fmt.Sprintf("├─ %-10s %s", venue.Name, style.Render(status))
		if venue.Available && venue.Latency > 0 {
			line += fmt.Sprintf(" (%s)", venue.Latency.Round(time.Millisecond))
		}
		result += line + "\n"
	}

	return result
}
