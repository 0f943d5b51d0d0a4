// Package di contains dependency injection tokens for the market context.
package di

import (
	"github.com/arbx/arbitrageur/business/market/app"
	"github.com/arbx/arbitrageur/internal/di"
)

// Public service tokens - exposed to other modules
var (
	MarketWatcher = di.NewToken[*app.MarketWatcher]("market.MarketWatcher")
)

// Private dependency tokens - internal to market module
var (
	VenueWatchers = di.NewToken[[]*app.VenueWatcher]("market:venueWatchers")
)

// Helper functions for type-safe access
func GetMarketWatcher(c di.ServiceRegistry) *app.MarketWatcher {
	return di.GetToken(c, MarketWatcher)
}

func GetVenueWatchers(c di.ServiceRegistry) []*app.VenueWatcher {
	return di.GetToken(c, VenueWatchers)
}
