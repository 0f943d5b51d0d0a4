package app

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	marketDomain "github.com/arbx/arbitrageur/business/market/domain"
	"github.com/arbx/arbitrageur/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelDebug, "test", nil)
}

func newTestDetector(rate float64) *Detector {
	return NewDetector(DetectorConfig{
		MarginalProfitRate: decimal.NewFromFloat(rate),
	}, testLogger())
}

func levels(pairs ...[2]int64) []marketDomain.Level {
	out := make([]marketDomain.Level, len(pairs))
	for i, p := range pairs {
		out[i] = marketDomain.Level{Price: p[0], Amount: p[1]}
	}
	return out
}

func assertLegs(t *testing.T, name string, got, want []marketDomain.Level) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %v, want %v", name, i, got[i], want[i])
		}
	}
}

func TestProcessPairSingleUnitCrossings(t *testing.T) {
	d := newTestDetector(0)

	opp := d.ProcessPair("a", "b",
		levels([2]int64{2, 1}, [2]int64{3, 1}, [2]int64{4, 1}, [2]int64{5, 1}),
		levels([2]int64{5, 1}, [2]int64{4, 1}, [2]int64{3, 1}, [2]int64{2, 1}),
	)
	if opp == nil {
		t.Fatal("ProcessPair() returned nil, want opportunity")
	}

	assertLegs(t, "Buys", opp.Buys, levels([2]int64{2, 1}, [2]int64{3, 1}))
	assertLegs(t, "Sells", opp.Sells, levels([2]int64{5, 1}, [2]int64{4, 1}))

	if opp.Amount != 2 || opp.Pay != 5 || opp.Paid != 9 {
		t.Errorf("amount/pay/paid = %d/%d/%d, want 2/5/9", opp.Amount, opp.Pay, opp.Paid)
	}
	if opp.MinBuyPrice != 2 || opp.MaxBuyPrice != 3 {
		t.Errorf("buy price range = %d..%d, want 2..3", opp.MinBuyPrice, opp.MaxBuyPrice)
	}
	if opp.MinSellPrice != 4 || opp.MaxSellPrice != 5 {
		t.Errorf("sell price range = %d..%d, want 4..5", opp.MinSellPrice, opp.MaxSellPrice)
	}
	// Half-even rounding: 2.5 -> 2, 4.5 -> 4.
	if opp.WeightedBuyPrice != 2 {
		t.Errorf("WeightedBuyPrice = %d, want 2", opp.WeightedBuyPrice)
	}
	if opp.WeightedSellPrice != 4 {
		t.Errorf("WeightedSellPrice = %d, want 4", opp.WeightedSellPrice)
	}
}

func TestProcessPairConsolidatesLegs(t *testing.T) {
	d := newTestDetector(0)

	opp := d.ProcessPair("a", "b",
		levels([2]int64{2, 2}, [2]int64{3, 2}, [2]int64{4, 1}, [2]int64{5, 2}),
		levels([2]int64{6, 1}, [2]int64{5, 5}, [2]int64{4, 2}, [2]int64{2, 1}),
	)
	if opp == nil {
		t.Fatal("ProcessPair() returned nil, want opportunity")
	}

	assertLegs(t, "Buys", opp.Buys, levels([2]int64{2, 2}, [2]int64{3, 2}, [2]int64{4, 1}))
	assertLegs(t, "Sells", opp.Sells, levels([2]int64{6, 1}, [2]int64{5, 4}))

	if opp.Amount != 5 || opp.Pay != 14 || opp.Paid != 26 {
		t.Errorf("amount/pay/paid = %d/%d/%d, want 5/14/26", opp.Amount, opp.Pay, opp.Paid)
	}
}

func TestProcessPairThresholdShrinksMatch(t *testing.T) {
	// Same book as the consolidation case: at threshold 0.3 the final
	// unit (buy@4, sell@5, rate 0.25) no longer clears.
	d := newTestDetector(0.3)

	opp := d.ProcessPair("a", "b",
		levels([2]int64{2, 2}, [2]int64{3, 2}, [2]int64{4, 1}, [2]int64{5, 2}),
		levels([2]int64{6, 1}, [2]int64{5, 5}, [2]int64{4, 2}, [2]int64{2, 1}),
	)
	if opp == nil {
		t.Fatal("ProcessPair() returned nil, want opportunity")
	}

	assertLegs(t, "Buys", opp.Buys, levels([2]int64{2, 2}, [2]int64{3, 2}))
	assertLegs(t, "Sells", opp.Sells, levels([2]int64{6, 1}, [2]int64{5, 3}))

	if opp.Amount != 4 || opp.Pay != 10 || opp.Paid != 21 {
		t.Errorf("amount/pay/paid = %d/%d/%d, want 4/10/21", opp.Amount, opp.Pay, opp.Paid)
	}
}

func TestProcessPairNoOpportunity(t *testing.T) {
	d := newTestDetector(0)

	tests := []struct {
		name string
		asks []marketDomain.Level
		bids []marketDomain.Level
	}{
		{
			name: "empty asks",
			bids: levels([2]int64{5, 1}),
		},
		{
			name: "empty bids",
			asks: levels([2]int64{2, 1}),
		},
		{
			name: "no crossing",
			asks: levels([2]int64{5, 1}),
			bids: levels([2]int64{4, 1}),
		},
		{
			name: "equal best prices",
			asks: levels([2]int64{5, 1}),
			bids: levels([2]int64{5, 1}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if opp := d.ProcessPair("a", "b", tt.asks, tt.bids); opp != nil {
				t.Errorf("ProcessPair() = %+v, want nil", opp)
			}
		})
	}
}

func TestProcessPairRateExactlyAtThresholdExcluded(t *testing.T) {
	// (bid-ask)/ask = (6-4)/4 = 0.5 exactly: strict > required.
	d := newTestDetector(0.5)

	opp := d.ProcessPair("a", "b",
		levels([2]int64{4, 1}),
		levels([2]int64{6, 1}),
	)
	if opp != nil {
		t.Errorf("ProcessPair() = %+v, want nil at the threshold boundary", opp)
	}
}

func TestProcessPairAmountMonotonicInThreshold(t *testing.T) {
	asks := levels([2]int64{2, 2}, [2]int64{3, 2}, [2]int64{4, 1}, [2]int64{5, 2})
	bids := levels([2]int64{6, 1}, [2]int64{5, 5}, [2]int64{4, 2}, [2]int64{2, 1})

	prev := int64(1 << 62)
	for _, rate := range []float64{0, 0.1, 0.25, 0.3, 0.5, 1.0, 2.0} {
		d := newTestDetector(rate)
		var amount int64
		if opp := d.ProcessPair("a", "b", asks, bids); opp != nil {
			amount = opp.Amount
		}
		if amount > prev {
			t.Fatalf("amount grew from %d to %d when threshold rose to %v", prev, amount, rate)
		}
		prev = amount
	}
}

func TestProcessPairLegSumsMatchAmount(t *testing.T) {
	d := newTestDetector(0)

	opp := d.ProcessPair("a", "b",
		levels([2]int64{2, 3}, [2]int64{3, 4}),
		levels([2]int64{6, 2}, [2]int64{5, 9}),
	)
	if opp == nil {
		t.Fatal("ProcessPair() returned nil, want opportunity")
	}

	var buySum, sellSum int64
	for _, l := range opp.Buys {
		buySum += l.Amount
	}
	for _, l := range opp.Sells {
		sellSum += l.Amount
	}
	if buySum != opp.Amount || sellSum != opp.Amount {
		t.Errorf("leg sums %d/%d, want both %d", buySum, sellSum, opp.Amount)
	}

	for i := 1; i < len(opp.Buys); i++ {
		if opp.Buys[i].Price <= opp.Buys[i-1].Price {
			t.Error("consolidated buy legs must be strictly increasing")
		}
	}
	for i := 1; i < len(opp.Sells); i++ {
		if opp.Sells[i].Price >= opp.Sells[i-1].Price {
			t.Error("consolidated sell legs must be strictly decreasing")
		}
	}
}

func TestHasMatchingOrders(t *testing.T) {
	d := newTestDetector(0)

	crossed := &marketDomain.OrderBook{
		Asks: levels([2]int64{4, 1}),
		Bids: levels([2]int64{5, 1}),
	}
	if !d.HasMatchingOrders("x", crossed) {
		t.Error("HasMatchingOrders() = false for crossed book")
	}

	normal := &marketDomain.OrderBook{
		Asks: levels([2]int64{5, 1}),
		Bids: levels([2]int64{4, 1}),
	}
	if d.HasMatchingOrders("x", normal) {
		t.Error("HasMatchingOrders() = true for normal book")
	}

	oneSided := &marketDomain.OrderBook{
		Asks: levels([2]int64{5, 1}),
	}
	if d.HasMatchingOrders("x", oneSided) {
		t.Error("HasMatchingOrders() = true for one-sided book")
	}
}

func TestProcessExcludesCrossedVenues(t *testing.T) {
	books := []marketDomain.VenueBook{
		{Venue: "crossed", Book: &marketDomain.OrderBook{
			Asks: levels([2]int64{1, 1}),
			Bids: levels([2]int64{9, 1}),
		}},
		{Venue: "cheap", Book: &marketDomain.OrderBook{
			Asks: levels([2]int64{2, 1}),
			Bids: levels([2]int64{1, 1}),
		}},
		{Venue: "dear", Book: &marketDomain.OrderBook{
			Asks: levels([2]int64{6, 1}),
			Bids: levels([2]int64{5, 1}),
		}},
	}

	d := newTestDetector(0)
	opps := d.Process(context.Background(), books)

	if len(opps) != 1 {
		t.Fatalf("Process() found %d opportunities, want 1", len(opps))
	}
	if opps[0].BuyVenue != "cheap" || opps[0].SellVenue != "dear" {
		t.Errorf("opportunity %s->%s, want cheap->dear", opps[0].BuyVenue, opps[0].SellVenue)
	}

	// With the check ignored the crossed venue participates again.
	ignoring := NewDetector(DetectorConfig{
		MarginalProfitRate:   decimal.Zero,
		IgnoreMatchingOrders: true,
	}, testLogger())

	opps = ignoring.Process(context.Background(), books)
	if len(opps) < 2 {
		t.Errorf("Process() with ignore found %d opportunities, want at least 2", len(opps))
	}
}

func TestProcessEmptyRound(t *testing.T) {
	d := newTestDetector(0)

	if opps := d.Process(context.Background(), nil); len(opps) != 0 {
		t.Errorf("Process(nil) = %v, want none", opps)
	}

	single := []marketDomain.VenueBook{{Venue: "only", Book: &marketDomain.OrderBook{
		Asks: levels([2]int64{5, 1}),
		Bids: levels([2]int64{4, 1}),
	}}}
	if opps := d.Process(context.Background(), single); len(opps) != 0 {
		t.Errorf("Process() with one venue = %v, want none", opps)
	}
}

func TestNewDetectorRejectsNegativeRate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewDetector() should panic on a negative rate")
		}
	}()
	NewDetector(DetectorConfig{MarginalProfitRate: decimal.NewFromFloat(-0.1)}, testLogger())
}

func TestOpportunityRates(t *testing.T) {
	d := newTestDetector(0)

	opp := d.ProcessPair("a", "b",
		levels([2]int64{2, 1}, [2]int64{3, 1}, [2]int64{4, 1}, [2]int64{5, 1}),
		levels([2]int64{5, 1}, [2]int64{4, 1}, [2]int64{3, 1}, [2]int64{2, 1}),
	)
	if opp == nil {
		t.Fatal("ProcessPair() returned nil, want opportunity")
	}

	if opp.Profit() != 4 {
		t.Errorf("Profit() = %d, want 4", opp.Profit())
	}
	// (9-5)/5 = 0.8
	if !opp.ProfitRate().Equal(decimal.NewFromFloat(0.8)) {
		t.Errorf("ProfitRate() = %s, want 0.8", opp.ProfitRate())
	}
	// worst matched pair: buy@3 sell@4 -> (4-3)/3
	want := decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
	if !opp.MarginalRate().Equal(want) {
		t.Errorf("MarginalRate() = %s, want %s", opp.MarginalRate(), want)
	}
}
