// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/arbx/arbitrageur/business/arbitrage/app"
	"github.com/arbx/arbitrageur/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Detector    = di.NewToken[*app.Detector]("arbitrage.Detector")
	Arbitrageur = di.NewToken[*app.Arbitrageur]("arbitrage.Arbitrageur")
)

// Private dependency tokens - internal to arbitrage module
var (
	Reporter = di.NewToken[app.Reporter]("arbitrage:reporter")
)

// Helper functions for type-safe access
func GetDetector(c di.ServiceRegistry) *app.Detector {
	return di.GetToken(c, Detector)
}

func GetArbitrageur(c di.ServiceRegistry) *app.Arbitrageur {
	return di.GetToken(c, Arbitrageur)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
