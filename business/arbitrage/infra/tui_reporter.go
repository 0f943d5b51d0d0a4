package infra

import (
	"context"
	"time"

	"github.com/arbx/arbitrageur/business/arbitrage/app"
	"github.com/arbx/arbitrageur/business/arbitrage/domain"
	"github.com/arbx/arbitrageur/pkg/ui"
)

// TUIReporter implements app.Reporter by forwarding events to the
// Bubble Tea program. The program itself is started by main, not here:
// Bubble Tea must own the terminal from the main goroutine.
type TUIReporter struct{}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{}
}

// Start is a no-op. The TUI program lifecycle belongs to main.
func (r *TUIReporter) Start(ctx context.Context) error {
	return nil
}

// Report sends an arbitrage opportunity to the TUI.
func (r *TUIReporter) Report(opp *domain.Opportunity) {
	ui.Send(ui.OpportunityMsg{Opportunity: opp})
}

// UpdateVenueStatus sends venue availability to the TUI.
func (r *TUIReporter) UpdateVenueStatus(venue string, available bool, latency time.Duration) {
	ui.Send(ui.VenueStatusMsg{
		Venue:     venue,
		Available: available,
		Latency:   latency,
	})
}

// RoundCompleted sends round stats to the TUI.
func (r *TUIReporter) RoundCompleted(stats app.RoundStats) {
	ui.Send(ui.RoundMsg{
		Round:         stats.Round,
		Venues:        stats.Venues,
		Books:         stats.Books,
		Opportunities: stats.Opportunities,
		Elapsed:       stats.Elapsed,
	})
}

// Stop quits the running TUI program, if any.
func (r *TUIReporter) Stop() error {
	if ui.Program != nil {
		ui.Program.Quit()
	}
	return nil
}
