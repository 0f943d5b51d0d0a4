// Package unit converts between human-readable market quantities and the
// integer units used internally: prices in cents, amounts in satoshis.
package unit

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// CentsPerDollar is the price scale: all prices are stored as cents.
	CentsPerDollar = 100

	// SatoshisPerCoin is the amount scale: all amounts are stored as satoshis.
	SatoshisPerCoin = 100_000_000
)

var (
	ErrNotPositive = errors.New("unit: value is not positive")
	ErrNotFinite   = errors.New("unit: value is not a finite number")
)

var (
	centsScale    = decimal.NewFromInt(CentsPerDollar)
	satoshisScale = decimal.NewFromInt(SatoshisPerCoin)
)

// PriceToCents converts a venue price (e.g. 12.34 dollars) to cents (1234).
// Rounding is half-to-even.
func PriceToCents(v decimal.Decimal) int64 {
	return v.Mul(centsScale).RoundBank(0).IntPart()
}

// AmountToSatoshis converts a coin amount (e.g. 0.12345678) to satoshis
// (12345678). Rounding is half-to-even.
func AmountToSatoshis(v decimal.Decimal) int64 {
	return v.Mul(satoshisScale).RoundBank(0).IntPart()
}

// ParsePrice parses a venue price string and converts it to cents.
// The result must be a positive integer number of cents.
func ParsePrice(s string) (int64, error) {
	return parse(s, centsScale, "price")
}

// ParseAmount parses a venue amount string and converts it to satoshis.
// The result must be a positive integer number of satoshis.
func ParseAmount(s string) (int64, error) {
	return parse(s, satoshisScale, "amount")
}

func parse(s string, scale decimal.Decimal, kind string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("unit: invalid %s %q: %w", kind, s, err)
	}
	v := d.Mul(scale).RoundBank(0)
	if !v.IsPositive() {
		return 0, fmt.Errorf("unit: %s %q: %w", kind, s, ErrNotPositive)
	}
	if !v.BigInt().IsInt64() {
		return 0, fmt.Errorf("unit: %s %q: %w", kind, s, ErrNotFinite)
	}
	return v.IntPart(), nil
}

// CentsToDollars converts cents back to a dollar-denominated decimal,
// used only for display.
func CentsToDollars(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(centsScale)
}

// SatoshisToCoins converts satoshis back to a coin-denominated decimal,
// used only for display.
func SatoshisToCoins(sat int64) decimal.Decimal {
	return decimal.NewFromInt(sat).Div(satoshisScale)
}

// NotionalToDollars converts a cents×satoshi notional (a price-amount
// product) to dollars, used only for display.
func NotionalToDollars(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Div(centsScale).Div(satoshisScale)
}

// RoundHalfEven rounds a decimal to the nearest integer, ties to even.
// This mirrors the rounding used for weighted prices.
func RoundHalfEven(v decimal.Decimal) int64 {
	return v.RoundBank(0).IntPart()
}
