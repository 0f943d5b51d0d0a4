// Package domain holds the normalized order book model shared by every
// venue adapter.
package domain

import (
	"fmt"

	"github.com/arbx/arbitrageur/internal/apperror"
)

// Level is a single price level: price in cents, amount in satoshis.
type Level struct {
	Price  int64 `json:"price"`
	Amount int64 `json:"amount"`
}

// OrderBook is a normalized two-sided book. Asks are sorted ascending by
// price (best ask first), bids descending (best bid first).
type OrderBook struct {
	Asks []Level `json:"asks"`
	Bids []Level `json:"bids"`
}

// VenueBook ties an order book to the venue it came from.
type VenueBook struct {
	Venue string     `json:"venue"`
	Book  *OrderBook `json:"book"`
}

// Validate checks level positivity and side ordering.
func (b *OrderBook) Validate() error {
	for i, l := range b.Asks {
		if l.Price <= 0 || l.Amount <= 0 {
			return apperror.New(apperror.CodeOrderBookInvalid,
				apperror.WithContext(fmt.Sprintf("ask %d has non-positive price or amount", i)))
		}
		if i > 0 && b.Asks[i-1].Price > l.Price {
			return apperror.New(apperror.CodeOrderBookInvalid,
				apperror.WithContext(fmt.Sprintf("asks not sorted ascending at index %d", i)))
		}
	}

	for i, l := range b.Bids {
		if l.Price <= 0 || l.Amount <= 0 {
			return apperror.New(apperror.CodeOrderBookInvalid,
				apperror.WithContext(fmt.Sprintf("bid %d has non-positive price or amount", i)))
		}
		if i > 0 && b.Bids[i-1].Price < l.Price {
			return apperror.New(apperror.CodeOrderBookInvalid,
				apperror.WithContext(fmt.Sprintf("bids not sorted descending at index %d", i)))
		}
	}

	return nil
}

// BestAsk returns the lowest ask, or false if the side is empty.
func (b *OrderBook) BestAsk() (Level, bool) {
	if len(b.Asks) == 0 {
		return Level{}, false
	}
	return b.Asks[0], true
}

// BestBid returns the highest bid, or false if the side is empty.
func (b *OrderBook) BestBid() (Level, bool) {
	if len(b.Bids) == 0 {
		return Level{}, false
	}
	return b.Bids[0], true
}

// IsCrossed reports whether the book's own best ask does not exceed its
// best bid. A crossed book signals venue-internal matching orders.
func (b *OrderBook) IsCrossed() bool {
	ask, okAsk := b.BestAsk()
	bid, okBid := b.BestBid()
	return okAsk && okBid && ask.Price <= bid.Price
}

// IsEmpty reports whether both sides are empty.
func (b *OrderBook) IsEmpty() bool {
	return len(b.Asks) == 0 && len(b.Bids) == 0
}

// Clone returns a deep copy so cached books can be handed out safely.
func (b *OrderBook) Clone() *OrderBook {
	clone := &OrderBook{
		Asks: make([]Level, len(b.Asks)),
		Bids: make([]Level, len(b.Bids)),
	}
	copy(clone.Asks, b.Asks)
	copy(clone.Bids, b.Bids)
	return clone
}
