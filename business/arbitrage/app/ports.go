package app

import (
	"context"
	"time"

	"github.com/arbx/arbitrageur/business/arbitrage/domain"
	marketApp "github.com/arbx/arbitrageur/business/market/app"
)

// MarketSource provides one round of venue order books.
type MarketSource interface {
	// Venues returns the configured venue names.
	Venues() []string

	// FetchAll queries every venue and reports per-venue results.
	FetchAll(ctx context.Context) []marketApp.FetchResult
}

// RoundStats summarizes one completed polling round.
type RoundStats struct {
	Round         int64
	Venues        int
	Books         int
	Opportunities int
	Elapsed       time.Duration
}

// Reporter defines the interface for reporting arbitrage opportunities.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report sends an arbitrage opportunity to be displayed/logged.
	Report(opp *domain.Opportunity)

	// UpdateVenueStatus updates a venue's availability display.
	UpdateVenueStatus(venue string, available bool, latency time.Duration)

	// RoundCompleted signals that a polling round has finished.
	RoundCompleted(stats RoundStats)

	// Stop gracefully shuts down the reporter.
	Stop() error
}
