// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbx/arbitrageur/business/arbitrage/domain"
	marketDomain "github.com/arbx/arbitrageur/business/market/domain"
	"github.com/arbx/arbitrageur/internal/logger"
	"github.com/arbx/arbitrageur/internal/unit"
)

// DetectorConfig holds configuration for the arbitrage detector.
type DetectorConfig struct {
	// MarginalProfitRate is the strict lower bound on (bid-ask)/ask for
	// every matched unit.
	MarginalProfitRate decimal.Decimal
	// IgnoreMatchingOrders keeps crossed books in the round instead of
	// excluding the offending venue.
	IgnoreMatchingOrders bool
}

// Detector finds cross-venue opportunities in a round of order books.
// It is stateless apart from its configuration and safe for concurrent use.
type Detector struct {
	config DetectorConfig
	logger logger.LoggerInterface
}

// NewDetector creates a Detector. A negative profit rate is a
// configuration bug and panics.
func NewDetector(config DetectorConfig, log logger.LoggerInterface) *Detector {
	if config.MarginalProfitRate.IsNegative() {
		panic("detector: marginal profit rate cannot be negative")
	}
	return &Detector{
		config: config,
		logger: log,
	}
}

// HasMatchingOrders reports whether a venue's book is crossed against
// itself: best ask ≤ best bid. That is a venue data-quality fault, not
// an arbitrage signal.
func (d *Detector) HasMatchingOrders(venue string, book *marketDomain.OrderBook) bool {
	return book.IsCrossed()
}

// Process evaluates every ordered venue pair in the round and returns
// the opportunities found. Crossed books are excluded per venue unless
// the detector is configured to ignore them.
func (d *Detector) Process(ctx context.Context, books []marketDomain.VenueBook) []*domain.Opportunity {
	usable := books
	if !d.config.IgnoreMatchingOrders {
		usable = make([]marketDomain.VenueBook, 0, len(books))
		for _, vb := range books {
			if d.HasMatchingOrders(vb.Venue, vb.Book) {
				d.logger.Warn(ctx, "excluding crossed order book", "venue", vb.Venue)
				continue
			}
			usable = append(usable, vb)
		}
	}

	var opportunities []*domain.Opportunity
	for i, buy := range usable {
		for j, sell := range usable {
			if i == j {
				continue
			}
			if opp := d.ProcessPair(buy.Venue, sell.Venue, buy.Book.Asks, sell.Book.Bids); opp != nil {
				opportunities = append(opportunities, opp)
			}
		}
	}

	return opportunities
}

// ProcessPair matches one venue's asks against another's bids with a
// greedy volume walk. Returns nil when nothing clears the profit-rate
// threshold.
func (d *Detector) ProcessPair(buyVenue, sellVenue string, asks, bids []marketDomain.Level) *domain.Opportunity {
	if len(asks) == 0 || len(bids) == 0 {
		return nil
	}

	// Only asks under the best bid and bids over the best ask can ever
	// trade profitably. Both sides are sorted best-first, so the bands
	// are prefixes.
	bestAsk := asks[0].Price
	bestBid := bids[0].Price

	buyBand := bandPrefix(asks, func(l marketDomain.Level) bool { return l.Price < bestBid })
	sellBand := bandPrefix(bids, func(l marketDomain.Level) bool { return l.Price > bestAsk })
	if len(buyBand) == 0 || len(sellBand) == 0 {
		return nil
	}

	var buyLegs, sellLegs []marketDomain.Level

	i, j := 0, 0
	askRemaining := buyBand[0].Amount
	bidRemaining := sellBand[0].Amount

	for i < len(buyBand) && j < len(sellBand) {
		askPrice := buyBand[i].Price
		bidPrice := sellBand[j].Price

		rate := decimal.NewFromInt(bidPrice - askPrice).Div(decimal.NewFromInt(askPrice))
		if !rate.GreaterThan(d.config.MarginalProfitRate) {
			break
		}

		matched := askRemaining
		if bidRemaining < matched {
			matched = bidRemaining
		}

		buyLegs = append(buyLegs, marketDomain.Level{Price: askPrice, Amount: matched})
		sellLegs = append(sellLegs, marketDomain.Level{Price: bidPrice, Amount: matched})

		askRemaining -= matched
		bidRemaining -= matched

		if askRemaining == 0 {
			i++
			if i < len(buyBand) {
				askRemaining = buyBand[i].Amount
			}
		}
		if bidRemaining == 0 {
			j++
			if j < len(sellBand) {
				bidRemaining = sellBand[j].Amount
			}
		}
	}

	if len(buyLegs) == 0 {
		return nil
	}

	return d.buildOpportunity(buyVenue, sellVenue, buyLegs, sellLegs)
}

// buildOpportunity consolidates matched legs and computes aggregates.
// The walk produces one buy leg per sell leg with equal matched volume;
// anything else is a broken collaborator and panics.
func (d *Detector) buildOpportunity(buyVenue, sellVenue string, buyLegs, sellLegs []marketDomain.Level) *domain.Opportunity {
	if len(buyLegs) != len(sellLegs) {
		panic(fmt.Sprintf("detector: %d buy legs vs %d sell legs", len(buyLegs), len(sellLegs)))
	}

	var amount, pay, paid int64
	var sellAmount int64
	for k := range buyLegs {
		amount += buyLegs[k].Amount
		sellAmount += sellLegs[k].Amount
		pay += buyLegs[k].Price * buyLegs[k].Amount
		paid += sellLegs[k].Price * sellLegs[k].Amount
	}
	if amount != sellAmount {
		panic(fmt.Sprintf("detector: matched %d buy units vs %d sell units", amount, sellAmount))
	}

	opp := &domain.Opportunity{
		Timestamp: time.Now(),
		BuyVenue:  buyVenue,
		SellVenue: sellVenue,

		// Min/max come from walk order: buys walk cheapest-first, sells
		// walk highest-first.
		MinBuyPrice:  buyLegs[0].Price,
		MaxBuyPrice:  buyLegs[len(buyLegs)-1].Price,
		MaxSellPrice: sellLegs[0].Price,
		MinSellPrice: sellLegs[len(sellLegs)-1].Price,

		Buys:  consolidateLegs(buyLegs, true),
		Sells: consolidateLegs(sellLegs, false),

		Amount: amount,
		Pay:    pay,
		Paid:   paid,
	}

	amountDec := decimal.NewFromInt(amount)
	opp.WeightedBuyPrice = unit.RoundHalfEven(decimal.NewFromInt(pay).Div(amountDec))
	opp.WeightedSellPrice = unit.RoundHalfEven(decimal.NewFromInt(paid).Div(amountDec))

	return opp
}

// bandPrefix returns the leading run of levels satisfying keep.
func bandPrefix(levels []marketDomain.Level, keep func(marketDomain.Level) bool) []marketDomain.Level {
	for i, l := range levels {
		if !keep(l) {
			return levels[:i]
		}
	}
	return levels
}

// consolidateLegs merges consecutive legs sharing a price. Walk output
// is monotonic per side; a violation means the walk is broken.
func consolidateLegs(legs []marketDomain.Level, ascending bool) []marketDomain.Level {
	out := make([]marketDomain.Level, 0, len(legs))
	for _, l := range legs {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.Price == l.Price {
				last.Amount += l.Amount
				continue
			}
			if (ascending && l.Price < last.Price) || (!ascending && l.Price > last.Price) {
				panic(fmt.Sprintf("detector: legs not monotonic: %d after %d", l.Price, last.Price))
			}
		}
		out = append(out, l)
	}
	return out
}
