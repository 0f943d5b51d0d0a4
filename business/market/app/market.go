package app

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arbx/arbitrageur/business/market/domain"
	"github.com/arbx/arbitrageur/internal/logger"
)

// FetchResult is the outcome of one venue fetch in a round.
type FetchResult struct {
	Venue   string
	Book    *domain.OrderBook
	Err     error
	Elapsed time.Duration
}

// MarketWatcher fans out order book fetches across all venue watchers.
type MarketWatcher struct {
	watchers []*VenueWatcher
	logger   logger.LoggerInterface
}

// NewMarketWatcher creates a MarketWatcher over the given venue watchers.
func NewMarketWatcher(watchers []*VenueWatcher, log logger.LoggerInterface) *MarketWatcher {
	return &MarketWatcher{
		watchers: watchers,
		logger:   log,
	}
}

// Venues returns the watched venue names, in watcher order.
func (m *MarketWatcher) Venues() []string {
	venues := make([]string, len(m.watchers))
	for i, w := range m.watchers {
		venues[i] = w.Venue()
	}
	return venues
}

// FetchAll queries every venue concurrently and waits for all of them.
// Each venue reports its own result; one venue failing never cancels the
// others.
func (m *MarketWatcher) FetchAll(ctx context.Context) []FetchResult {
	ctx, span := otel.Tracer("market_watcher").Start(ctx, "market.fetch_all",
		trace.WithAttributes(attribute.Int("venues", len(m.watchers))))
	defer span.End()

	results := make([]FetchResult, len(m.watchers))

	var wg sync.WaitGroup
	for i, w := range m.watchers {
		wg.Add(1)
		go func(i int, w *VenueWatcher) {
			defer wg.Done()

			start := time.Now()
			book, err := w.GetOrderBook(ctx)
			results[i] = FetchResult{
				Venue:   w.Venue(),
				Book:    book,
				Err:     err,
				Elapsed: time.Since(start),
			}
		}(i, w)
	}
	wg.Wait()

	return results
}

// GetOrderBooks fetches from every venue and returns the successful books.
// An empty slice is a valid round: every venue may be down at once.
func (m *MarketWatcher) GetOrderBooks(ctx context.Context) []domain.VenueBook {
	results := m.FetchAll(ctx)

	books := make([]domain.VenueBook, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			m.logger.Warn(ctx, "skipping venue for this round", "venue", r.Venue, "error", r.Err)
			continue
		}
		books = append(books, domain.VenueBook{Venue: r.Venue, Book: r.Book})
	}

	return books
}

// SetAllDirty forces every watcher to refresh on its next fetch.
func (m *MarketWatcher) SetAllDirty() {
	for _, w := range m.watchers {
		w.SetDirty()
	}
}
