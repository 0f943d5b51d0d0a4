// Package app contains application services and port definitions for the market context.
package app

import (
	"context"

	"github.com/arbx/arbitrageur/business/market/domain"
)

// Adapter fetches the live order book from a single venue.
type Adapter interface {
	// Venue returns the adapter's venue name.
	Venue() string

	// FetchOrderBook retrieves and normalizes the venue's current depth.
	FetchOrderBook(ctx context.Context) (*domain.OrderBook, error)
}
