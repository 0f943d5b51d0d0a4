// Package market implements the market bounded context: venue adapters
// and cached order book watchers.
package market

import (
	"context"

	"github.com/arbx/arbitrageur/business/market/app"
	marketDI "github.com/arbx/arbitrageur/business/market/di"
	"github.com/arbx/arbitrageur/business/market/infra"
	"github.com/arbx/arbitrageur/internal/config"
	"github.com/arbx/arbitrageur/internal/di"
	"github.com/arbx/arbitrageur/internal/logger"
	"github.com/arbx/arbitrageur/internal/monolith"
	"github.com/arbx/arbitrageur/internal/ratelimit"
)

// Module implements the market bounded context.
type Module struct{}

// RegisterServices registers all market services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register one VenueWatcher per configured venue - private dependency
	di.RegisterToken(c, marketDI.VenueWatchers, func(sr di.ServiceRegistry) []*app.VenueWatcher {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		limiters := ratelimit.NewKeyed(cfg.Market.RequestsPerMinute)

		watchers := make([]*app.VenueWatcher, 0, len(cfg.Market.Venues))
		for _, venue := range cfg.Market.Venues {
			adapter, err := infra.NewAdapter(venue, cfg.Market.Endpoints[venue], cfg.Market.FetchTimeout, log)
			if err != nil {
				panic("failed to create venue adapter: " + err.Error())
			}

			watchers = append(watchers, app.NewVenueWatcher(adapter, app.VenueWatcherConfig{
				RefreshInterval: cfg.Market.RefreshInterval,
				FetchTimeout:    cfg.Market.FetchTimeout,
			}, log, limiters.Get(venue)))
		}

		return watchers
	})

	// Register MarketWatcher (public - exposed to other modules)
	di.RegisterToken(c, marketDI.MarketWatcher, func(sr di.ServiceRegistry) *app.MarketWatcher {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewMarketWatcher(marketDI.GetVenueWatchers(sr), log)
	})

	return nil
}

// Startup initializes the market module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	watcher := marketDI.GetMarketWatcher(mono.Services())

	log.Info(ctx, "market module started", "venues", watcher.Venues())
	return nil
}
