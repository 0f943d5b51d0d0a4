// Package arbitrage implements the arbitrage bounded context: opportunity
// detection over venue order books and the polling loop that reports them.
package arbitrage

import (
	"context"

	"github.com/arbx/arbitrageur/business/arbitrage/app"
	arbitrageDI "github.com/arbx/arbitrageur/business/arbitrage/di"
	"github.com/arbx/arbitrageur/business/arbitrage/infra"
	marketDI "github.com/arbx/arbitrageur/business/market/di"
	"github.com/arbx/arbitrageur/internal/config"
	"github.com/arbx/arbitrageur/internal/di"
	"github.com/arbx/arbitrageur/internal/logger"
	"github.com/arbx/arbitrageur/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbitrageDI.Detector, func(sr di.ServiceRegistry) *app.Detector {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewDetector(app.DetectorConfig{
			MarginalProfitRate:   cfg.Arbitrage.MarginalProfitRateDecimal(),
			IgnoreMatchingOrders: cfg.Arbitrage.IgnoreMatchingOrders,
		}, log)
	})

	di.RegisterToken(c, arbitrageDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		if cfg.Arbitrage.TUIMode {
			return infra.NewTUIReporter()
		}
		return infra.NewConsoleReporter()
	})

	di.RegisterToken(c, arbitrageDI.Arbitrageur, func(sr di.ServiceRegistry) *app.Arbitrageur {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewArbitrageur(
			marketDI.GetMarketWatcher(sr),
			arbitrageDI.GetDetector(sr),
			arbitrageDI.GetReporter(sr),
			app.ArbitrageurConfig{PollInterval: cfg.Arbitrage.PollInterval},
			log,
		)
	})

	return nil
}

// Startup starts the polling loop.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	arbitrageur := arbitrageDI.GetArbitrageur(mono.Services())
	if err := arbitrageur.Start(ctx); err != nil {
		return err
	}

	mono.Logger().Info(ctx, "arbitrage module started",
		"poll_interval", mono.Config().Arbitrage.PollInterval,
		"marginal_profit_rate", mono.Config().Arbitrage.MarginalProfitRate)
	return nil
}
