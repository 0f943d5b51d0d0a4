package unit_test

import (
	"testing"

	"github.com/arbx/arbitrageur/internal/unit"
	"github.com/shopspring/decimal"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "12.34", want: 1234},
		{in: "12.3456", want: 1235}, // 1234.56 rounds to 1235
		{in: "0.01", want: 1},
		{in: "100", want: 10000},
		{in: "0.005", want: 0, wantErr: true},  // rounds to 0 cents (half-even)
		{in: "0", want: 0, wantErr: true},
		{in: "-3.50", want: 0, wantErr: true},
		{in: "abc", want: 0, wantErr: true},
		{in: "", want: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := unit.ParsePrice(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePrice(%q) = %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "0.12345678", want: 12345678},
		{in: "1", want: 100000000},
		{in: "0.00000001", want: 1},
		{in: "0.000000001", want: 0, wantErr: true}, // below one satoshi
		{in: "-1", want: 0, wantErr: true},
		{in: "1,5", want: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := unit.ParseAmount(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundHalfEven(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{in: "2.5", want: 2},
		{in: "3.5", want: 4},
		{in: "2.4", want: 2},
		{in: "2.6", want: 3},
		{in: "-2.5", want: -2},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := unit.RoundHalfEven(decimal.RequireFromString(tt.in))
			if got != tt.want {
				t.Errorf("RoundHalfEven(%s) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestDisplayConversions(t *testing.T) {
	if got := unit.CentsToDollars(1234); !got.Equal(decimal.RequireFromString("12.34")) {
		t.Errorf("CentsToDollars(1234) = %s, want 12.34", got)
	}
	if got := unit.SatoshisToCoins(12345678); !got.Equal(decimal.RequireFromString("0.12345678")) {
		t.Errorf("SatoshisToCoins(12345678) = %s, want 0.12345678", got)
	}
	// 200 cents x 1 BTC in satoshis is a $2.00 notional.
	if got := unit.NotionalToDollars(200 * 100_000_000); !got.Equal(decimal.RequireFromString("2")) {
		t.Errorf("NotionalToDollars(2e10) = %s, want 2", got)
	}
}
