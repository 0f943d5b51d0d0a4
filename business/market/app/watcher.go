package app

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/arbx/arbitrageur/business/market/domain"
	"github.com/arbx/arbitrageur/internal/apperror"
	"github.com/arbx/arbitrageur/internal/circuitbreaker"
	"github.com/arbx/arbitrageur/internal/logger"
	"github.com/arbx/arbitrageur/internal/ratelimit"
)

// VenueWatcherConfig holds per-venue caching and fetch settings.
type VenueWatcherConfig struct {
	// RefreshInterval is how long a fetched book stays fresh.
	RefreshInterval time.Duration
	// FetchTimeout bounds a single venue request.
	FetchTimeout time.Duration
}

// VenueWatcher caches one venue's order book and refreshes it on demand.
// A cached book is served as long as it is younger than RefreshInterval
// and has not been marked dirty.
type VenueWatcher struct {
	adapter Adapter
	config  VenueWatcherConfig
	logger  logger.LoggerInterface
	limiter *ratelimit.Limiter
	breaker *circuitbreaker.CircuitBreaker[*domain.OrderBook]

	mu         sync.Mutex
	book       *domain.OrderBook
	lastUpdate time.Time
	dirty      bool

	// now is swappable for tests.
	now func() time.Time

	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
	fetchErrors metric.Int64Counter
}

// NewVenueWatcher creates a watcher around a venue adapter.
func NewVenueWatcher(
	adapter Adapter,
	config VenueWatcherConfig,
	log logger.LoggerInterface,
	limiter *ratelimit.Limiter,
) *VenueWatcher {
	meter := otel.GetMeterProvider().Meter("market_venue_watcher")

	cacheHits, _ := meter.Int64Counter("venue_book_cache_hits_total",
		metric.WithDescription("Order book requests served from cache"))
	cacheMisses, _ := meter.Int64Counter("venue_book_cache_misses_total",
		metric.WithDescription("Order book requests that triggered a venue fetch"))
	fetchErrors, _ := meter.Int64Counter("venue_book_fetch_errors_total",
		metric.WithDescription("Failed order book fetches"))

	return &VenueWatcher{
		adapter:     adapter,
		config:      config,
		logger:      log,
		limiter:     limiter,
		breaker:     circuitbreaker.New[*domain.OrderBook](circuitbreaker.DefaultConfig(adapter.Venue())),
		dirty:       true,
		now:         time.Now,
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
		fetchErrors: fetchErrors,
	}
}

// Venue returns the watched venue's name.
func (w *VenueWatcher) Venue() string {
	return w.adapter.Venue()
}

// SetDirty forces the next GetOrderBook call to refresh from the venue.
func (w *VenueWatcher) SetDirty() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirty = true
}

// LastUpdate returns when the cached book was last refreshed.
func (w *VenueWatcher) LastUpdate() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUpdate
}

// GetOrderBook returns the venue's order book, refreshing the cache if it
// is stale or dirty. Callers receive a copy they may mutate freely.
func (w *VenueWatcher) GetOrderBook(ctx context.Context) (*domain.OrderBook, error) {
	venueAttr := metric.WithAttributes(attribute.String("venue", w.Venue()))

	w.mu.Lock()
	if !w.dirty && w.book != nil && w.now().Sub(w.lastUpdate) < w.config.RefreshInterval {
		book := w.book.Clone()
		w.mu.Unlock()
		w.cacheHits.Add(ctx, 1, venueAttr)
		return book, nil
	}
	w.mu.Unlock()

	w.cacheMisses.Add(ctx, 1, venueAttr)

	book, fetchedAt, err := w.refresh(ctx)
	if err != nil {
		w.fetchErrors.Add(ctx, 1, venueAttr)
		w.logger.Warn(ctx, "venue order book refresh failed", "venue", w.Venue(), "error", err)
		return nil, apperror.Wrap(err, apperror.CodeVenueUnavailable, w.Venue())
	}

	w.mu.Lock()
	w.book = book
	w.lastUpdate = fetchedAt
	w.dirty = false
	clone := w.book.Clone()
	w.mu.Unlock()

	w.logger.Debug(ctx, "venue order book refreshed",
		"venue", w.Venue(), "asks", len(book.Asks), "bids", len(book.Bids))

	return clone, nil
}

// refresh fetches and validates a new book. The fetch start time becomes
// the book's freshness timestamp so slow responses age correctly.
func (w *VenueWatcher) refresh(ctx context.Context) (*domain.OrderBook, time.Time, error) {
	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			return nil, time.Time{}, apperror.Wrap(err, apperror.CodeVenueRateLimited, w.Venue())
		}
	}

	fetchedAt := w.now()

	fetchCtx := ctx
	if w.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, w.config.FetchTimeout)
		defer cancel()
	}

	book, err := w.breaker.Execute(func() (*domain.OrderBook, error) {
		return w.adapter.FetchOrderBook(fetchCtx)
	})
	if err != nil {
		return nil, time.Time{}, err
	}

	if err := book.Validate(); err != nil {
		return nil, time.Time{}, err
	}

	return book, fetchedAt, nil
}
