// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	marketDomain "github.com/arbx/arbitrageur/business/market/domain"
)

// Opportunity is a matched buy-low/sell-high trade between two venues.
// Prices are cents, amounts satoshis. Immutable once built.
type Opportunity struct {
	Timestamp time.Time

	BuyVenue  string
	SellVenue string

	// Buys and Sells are the consolidated matched legs. Buy prices are
	// strictly increasing, sell prices strictly decreasing.
	Buys  []marketDomain.Level
	Sells []marketDomain.Level

	MinBuyPrice      int64
	MaxBuyPrice      int64
	WeightedBuyPrice int64

	MinSellPrice      int64
	MaxSellPrice      int64
	WeightedSellPrice int64

	// Amount is the total matched volume, identical on both sides.
	Amount int64
	// Pay is the total spent buying, Paid the total received selling.
	Pay  int64
	Paid int64
}

// Profit returns proceeds minus cost.
func (o *Opportunity) Profit() int64 {
	return o.Paid - o.Pay
}

// ProfitRate returns (paid - pay) / pay.
func (o *Opportunity) ProfitRate() decimal.Decimal {
	if o.Pay == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(o.Paid - o.Pay).Div(decimal.NewFromInt(o.Pay))
}

// MarginalRate returns the profit rate of the worst matched price pair:
// the last unit traded still cleared this rate.
func (o *Opportunity) MarginalRate() decimal.Decimal {
	if o.MaxBuyPrice == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(o.MinSellPrice - o.MaxBuyPrice).
		Div(decimal.NewFromInt(o.MaxBuyPrice))
}
