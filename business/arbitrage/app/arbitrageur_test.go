package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arbx/arbitrageur/business/arbitrage/domain"
	marketApp "github.com/arbx/arbitrageur/business/market/app"
	marketDomain "github.com/arbx/arbitrageur/business/market/domain"
)

type fakeMarket struct {
	results []marketApp.FetchResult
}

func (f *fakeMarket) Venues() []string {
	venues := make([]string, len(f.results))
	for i, r := range f.results {
		venues[i] = r.Venue
	}
	return venues
}

func (f *fakeMarket) FetchAll(ctx context.Context) []marketApp.FetchResult {
	return f.results
}

type recordingReporter struct {
	mu            sync.Mutex
	started       bool
	stopped       bool
	opportunities []*domain.Opportunity
	statuses      map[string]bool
	rounds        []RoundStats
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{statuses: make(map[string]bool)}
}

func (r *recordingReporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
	return nil
}

func (r *recordingReporter) Report(opp *domain.Opportunity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opportunities = append(r.opportunities, opp)
}

func (r *recordingReporter) UpdateVenueStatus(venue string, available bool, latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[venue] = available
}

func (r *recordingReporter) RoundCompleted(stats RoundStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds = append(r.rounds, stats)
}

func (r *recordingReporter) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	return nil
}

func TestArbitrageurRound(t *testing.T) {
	market := &fakeMarket{results: []marketApp.FetchResult{
		{Venue: "cheap", Book: &marketDomain.OrderBook{
			Asks: levels([2]int64{200, 100}),
			Bids: levels([2]int64{190, 100}),
		}},
		{Venue: "dear", Book: &marketDomain.OrderBook{
			Asks: levels([2]int64{320, 100}),
			Bids: levels([2]int64{300, 100}),
		}},
		{Venue: "down", Err: errors.New("timeout")},
	}}

	reporter := newRecordingReporter()
	a := NewArbitrageur(market, newTestDetector(0), reporter,
		ArbitrageurConfig{PollInterval: time.Hour}, testLogger())

	a.runRound(context.Background(), 1)

	if len(reporter.opportunities) != 1 {
		t.Fatalf("reported %d opportunities, want 1", len(reporter.opportunities))
	}
	opp := reporter.opportunities[0]
	if opp.BuyVenue != "cheap" || opp.SellVenue != "dear" {
		t.Errorf("opportunity %s->%s, want cheap->dear", opp.BuyVenue, opp.SellVenue)
	}
	if opp.Amount != 100 || opp.Pay != 200*100 || opp.Paid != 300*100 {
		t.Errorf("amount/pay/paid = %d/%d/%d", opp.Amount, opp.Pay, opp.Paid)
	}

	if available, ok := reporter.statuses["down"]; !ok || available {
		t.Error("failed venue should be reported unavailable")
	}
	if available := reporter.statuses["cheap"]; !available {
		t.Error("healthy venue should be reported available")
	}

	if len(reporter.rounds) != 1 {
		t.Fatalf("round stats recorded %d times, want 1", len(reporter.rounds))
	}
	stats := reporter.rounds[0]
	if stats.Venues != 3 || stats.Books != 2 || stats.Opportunities != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestArbitrageurStartStop(t *testing.T) {
	market := &fakeMarket{}
	reporter := newRecordingReporter()
	a := NewArbitrageur(market, newTestDetector(0), reporter,
		ArbitrageurConfig{PollInterval: time.Hour}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := a.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	if !reporter.started || !reporter.stopped {
		t.Error("reporter should be started and stopped")
	}
}

func TestArbitrageurEmptyRound(t *testing.T) {
	market := &fakeMarket{results: []marketApp.FetchResult{
		{Venue: "down", Err: errors.New("unreachable")},
	}}

	reporter := newRecordingReporter()
	a := NewArbitrageur(market, newTestDetector(0), reporter,
		ArbitrageurConfig{PollInterval: time.Hour}, testLogger())

	a.runRound(context.Background(), 1)

	if len(reporter.opportunities) != 0 {
		t.Errorf("reported %d opportunities, want 0", len(reporter.opportunities))
	}
	if len(reporter.rounds) != 1 || reporter.rounds[0].Books != 0 {
		t.Errorf("empty round should still complete: %+v", reporter.rounds)
	}
}
