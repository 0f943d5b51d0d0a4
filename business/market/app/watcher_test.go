package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/arbx/arbitrageur/business/market/domain"
	"github.com/arbx/arbitrageur/internal/logger"
)

type fakeAdapter struct {
	venue string
	book  *domain.OrderBook
	err   error
	calls int
}

func (f *fakeAdapter) Venue() string { return f.venue }

func (f *fakeAdapter) FetchOrderBook(ctx context.Context) (*domain.OrderBook, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.book.Clone(), nil
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelDebug, "test", nil)
}

func validBook() *domain.OrderBook {
	return &domain.OrderBook{
		Asks: []domain.Level{{Price: 1050, Amount: 100}},
		Bids: []domain.Level{{Price: 1040, Amount: 200}},
	}
}

func newTestWatcher(adapter Adapter, refresh time.Duration) *VenueWatcher {
	return NewVenueWatcher(adapter, VenueWatcherConfig{
		RefreshInterval: refresh,
		FetchTimeout:    time.Second,
	}, testLogger(), nil)
}

func TestVenueWatcherCachesWithinInterval(t *testing.T) {
	adapter := &fakeAdapter{venue: "bitstamp", book: validBook()}
	w := newTestWatcher(adapter, time.Minute)

	current := time.Unix(1000, 0)
	w.now = func() time.Time { return current }

	ctx := context.Background()

	if _, err := w.GetOrderBook(ctx); err != nil {
		t.Fatalf("first GetOrderBook() error = %v", err)
	}
	if adapter.calls != 1 {
		t.Fatalf("calls = %d, want 1", adapter.calls)
	}

	// Within the interval the cached book is served.
	current = current.Add(30 * time.Second)
	if _, err := w.GetOrderBook(ctx); err != nil {
		t.Fatalf("cached GetOrderBook() error = %v", err)
	}
	if adapter.calls != 1 {
		t.Errorf("calls = %d, want 1 (cache hit expected)", adapter.calls)
	}

	// Past the interval the watcher refreshes.
	current = current.Add(31 * time.Second)
	if _, err := w.GetOrderBook(ctx); err != nil {
		t.Fatalf("refreshing GetOrderBook() error = %v", err)
	}
	if adapter.calls != 2 {
		t.Errorf("calls = %d, want 2 (refresh expected)", adapter.calls)
	}
}

func TestVenueWatcherSetDirtyForcesRefresh(t *testing.T) {
	adapter := &fakeAdapter{venue: "mtgox", book: validBook()}
	w := newTestWatcher(adapter, time.Hour)

	ctx := context.Background()

	if _, err := w.GetOrderBook(ctx); err != nil {
		t.Fatalf("GetOrderBook() error = %v", err)
	}

	w.SetDirty()

	if _, err := w.GetOrderBook(ctx); err != nil {
		t.Fatalf("GetOrderBook() after SetDirty() error = %v", err)
	}
	if adapter.calls != 2 {
		t.Errorf("calls = %d, want 2", adapter.calls)
	}
}

func TestVenueWatcherFailedRefreshKeepsState(t *testing.T) {
	adapter := &fakeAdapter{venue: "btce", book: validBook()}
	w := newTestWatcher(adapter, time.Minute)

	current := time.Unix(2000, 0)
	w.now = func() time.Time { return current }

	ctx := context.Background()

	if _, err := w.GetOrderBook(ctx); err != nil {
		t.Fatalf("GetOrderBook() error = %v", err)
	}
	firstUpdate := w.LastUpdate()

	// Venue goes down past the interval: the round fails, no stale fallback.
	adapter.err = errors.New("connection refused")
	current = current.Add(2 * time.Minute)

	if _, err := w.GetOrderBook(ctx); err == nil {
		t.Fatal("GetOrderBook() should fail when the venue is down")
	}
	if !w.LastUpdate().Equal(firstUpdate) {
		t.Error("failed refresh must not touch lastUpdate")
	}

	// Venue recovers: next call fetches again.
	adapter.err = nil
	if _, err := w.GetOrderBook(ctx); err != nil {
		t.Fatalf("GetOrderBook() after recovery error = %v", err)
	}
	if adapter.calls != 3 {
		t.Errorf("calls = %d, want 3", adapter.calls)
	}
}

func TestVenueWatcherRejectsInvalidBook(t *testing.T) {
	adapter := &fakeAdapter{venue: "campbx", book: &domain.OrderBook{
		Asks: []domain.Level{{Price: 1060, Amount: 100}, {Price: 1050, Amount: 50}},
	}}
	w := newTestWatcher(adapter, time.Minute)

	if _, err := w.GetOrderBook(context.Background()); err == nil {
		t.Fatal("GetOrderBook() should reject an unsorted book")
	}
}

func TestVenueWatcherReturnsCopies(t *testing.T) {
	adapter := &fakeAdapter{venue: "bitstamp", book: validBook()}
	w := newTestWatcher(adapter, time.Hour)

	ctx := context.Background()

	first, err := w.GetOrderBook(ctx)
	if err != nil {
		t.Fatalf("GetOrderBook() error = %v", err)
	}
	first.Asks[0].Price = 9999

	second, err := w.GetOrderBook(ctx)
	if err != nil {
		t.Fatalf("GetOrderBook() error = %v", err)
	}
	if second.Asks[0].Price != 1050 {
		t.Error("mutating a returned book must not affect the cache")
	}
}
