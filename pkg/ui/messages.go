// Package ui provides the Bubble Tea TUI for the arbitrageur.
package ui

import (
	"time"

	"github.com/arbx/arbitrageur/business/arbitrage/domain"
)

// Message types for TUI updates

// OpportunityMsg is sent when an arbitrage opportunity is detected.
type OpportunityMsg struct {
	Opportunity *domain.Opportunity
}

// VenueStatusMsg is sent after every venue fetch attempt.
type VenueStatusMsg struct {
	Venue     string
	Available bool
	Latency   time.Duration
}

// RoundMsg is sent when a polling round completes.
type RoundMsg struct {
	Round         int64
	Venues        int
	Books         int
	Opportunities int
	Elapsed       time.Duration
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}
