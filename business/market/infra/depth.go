// Package infra implements venue adapters that fetch public depth
// endpoints and normalize them into domain order books.
package infra

import (
	"fmt"
	"sort"
	"time"

	"github.com/arbx/arbitrageur/business/market/domain"
	"github.com/arbx/arbitrageur/internal/apperror"
	"github.com/arbx/arbitrageur/internal/unit"
)

const defaultFetchTimeout = 10 * time.Second

// jsonNumber accepts both quoted and bare JSON numbers. Venue APIs are
// split on the convention: some quote prices, some do not.
type jsonNumber string

func (n *jsonNumber) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" {
		s = ""
	}
	*n = jsonNumber(s)
	return nil
}

// depthLevel is the [price, amount] pair used by most depth endpoints.
type depthLevel [2]jsonNumber

// buildOrderBook converts raw venue levels into a sorted, normalized
// book: asks ascending, bids descending, integer cents and satoshis.
func buildOrderBook(venue string, asks, bids []depthLevel) (*domain.OrderBook, error) {
	book := &domain.OrderBook{
		Asks: make([]domain.Level, 0, len(asks)),
		Bids: make([]domain.Level, 0, len(bids)),
	}

	for i, l := range asks {
		level, err := parseLevel(l)
		if err != nil {
			return nil, apperror.New(apperror.CodeOrderBookParse,
				apperror.WithContext(fmt.Sprintf("%s ask %d: %v", venue, i, err)))
		}
		book.Asks = append(book.Asks, level)
	}

	for i, l := range bids {
		level, err := parseLevel(l)
		if err != nil {
			return nil, apperror.New(apperror.CodeOrderBookParse,
				apperror.WithContext(fmt.Sprintf("%s bid %d: %v", venue, i, err)))
		}
		book.Bids = append(book.Bids, level)
	}

	sortBook(book)

	return book, nil
}

func parseLevel(l depthLevel) (domain.Level, error) {
	price, err := unit.ParsePrice(string(l[0]))
	if err != nil {
		return domain.Level{}, fmt.Errorf("price %q: %w", l[0], err)
	}

	amount, err := unit.ParseAmount(string(l[1]))
	if err != nil {
		return domain.Level{}, fmt.Errorf("amount %q: %w", l[1], err)
	}

	return domain.Level{Price: price, Amount: amount}, nil
}

// sortBook orders both sides best-first regardless of how the venue
// returned them.
func sortBook(book *domain.OrderBook) {
	sort.SliceStable(book.Asks, func(i, j int) bool {
		return book.Asks[i].Price < book.Asks[j].Price
	})
	sort.SliceStable(book.Bids, func(i, j int) bool {
		return book.Bids[i].Price > book.Bids[j].Price
	})
}

// venueErrorHandler flags non-2xx responses as venue API errors.
func venueErrorHandler(venue string) func(statusCode int, body []byte) error {
	return func(statusCode int, body []byte) error {
		if statusCode >= 400 {
			return apperror.New(apperror.CodeVenueAPIError,
				apperror.WithContext(fmt.Sprintf("%s returned HTTP %d", venue, statusCode)))
		}
		return nil
	}
}
