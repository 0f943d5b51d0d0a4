package infra

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/arbx/arbitrageur/business/arbitrage/app"
	"github.com/arbx/arbitrageur/business/arbitrage/domain"
	marketDomain "github.com/arbx/arbitrageur/business/market/domain"
)

func TestConsoleReporterReport(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporterTo(&buf)

	opp := &domain.Opportunity{
		Timestamp: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		BuyVenue:  "bitstamp",
		SellVenue: "mtgox",
		Buys:      []marketDomain.Level{{Price: 200, Amount: 100_000_000}},
		Sells:     []marketDomain.Level{{Price: 300, Amount: 100_000_000}},

		MinBuyPrice:      200,
		MaxBuyPrice:      200,
		WeightedBuyPrice: 200,

		MinSellPrice:      300,
		MaxSellPrice:      300,
		WeightedSellPrice: 300,

		Amount: 100_000_000,
		Pay:    200 * 100_000_000,
		Paid:   300 * 100_000_000,
	}

	r.Report(opp)
	out := buf.String()

	for _, want := range []string{
		"ARBITRAGE OPPORTUNITY DETECTED",
		"buy bitstamp, sell mtgox",
		"1.00000000 BTC",
		"50.00%", // (300-200)/200 net rate
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleReporterLifecycle(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporterTo(&buf)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	r.UpdateVenueStatus("btce", false, 0)
	r.RoundCompleted(app.RoundStats{Round: 3, Venues: 4, Books: 3, Opportunities: 1, Elapsed: 120 * time.Millisecond})
	if err := r.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"BTC Arbitrageur Started",
		"btce: down",
		"round 3: 3/4 books, 1 opportunities",
		"BTC Arbitrageur Stopped",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
