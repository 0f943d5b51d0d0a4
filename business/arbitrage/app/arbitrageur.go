package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/arbx/arbitrageur/business/arbitrage/domain"
	marketDomain "github.com/arbx/arbitrageur/business/market/domain"
	"github.com/arbx/arbitrageur/internal/logger"
	"github.com/arbx/arbitrageur/internal/unit"
)

// ArbitrageurConfig holds the polling loop settings.
type ArbitrageurConfig struct {
	PollInterval time.Duration
}

// Arbitrageur runs the fetch → detect → report loop.
type Arbitrageur struct {
	market   MarketSource
	detector *Detector
	reporter Reporter
	config   ArbitrageurConfig
	logger   logger.LoggerInterface

	rounds        metric.Int64Counter
	opportunities metric.Int64Counter
	roundLatency  metric.Float64Histogram
}

// NewArbitrageur creates the polling service.
func NewArbitrageur(
	market MarketSource,
	detector *Detector,
	reporter Reporter,
	config ArbitrageurConfig,
	log logger.LoggerInterface,
) *Arbitrageur {
	meter := otel.GetMeterProvider().Meter("arbitrageur")

	rounds, _ := meter.Int64Counter("arbitrage_rounds_total",
		metric.WithDescription("Completed polling rounds"))
	opportunities, _ := meter.Int64Counter("arbitrage_opportunities_total",
		metric.WithDescription("Detected arbitrage opportunities"))
	roundLatency, _ := meter.Float64Histogram("arbitrage_round_duration_seconds",
		metric.WithDescription("Wall time of a polling round"))

	return &Arbitrageur{
		market:        market,
		detector:      detector,
		reporter:      reporter,
		config:        config,
		logger:        log,
		rounds:        rounds,
		opportunities: opportunities,
		roundLatency:  roundLatency,
	}
}

// Start begins the polling loop. The first round runs immediately.
func (a *Arbitrageur) Start(ctx context.Context) error {
	a.logger.Info(ctx, "starting arbitrageur",
		"venues", a.market.Venues(), "poll_interval", a.config.PollInterval)

	if err := a.reporter.Start(ctx); err != nil {
		return err
	}

	go a.run(ctx)

	return nil
}

func (a *Arbitrageur) run(ctx context.Context) {
	ticker := time.NewTicker(a.config.PollInterval)
	defer ticker.Stop()

	var round int64
	round++
	a.runRound(ctx, round)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info(ctx, "arbitrageur stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			round++
			a.runRound(ctx, round)
		}
	}
}

// runRound performs one fetch → detect → report cycle.
func (a *Arbitrageur) runRound(ctx context.Context, round int64) {
	start := time.Now()

	results := a.market.FetchAll(ctx)

	books := make([]marketDomain.VenueBook, 0, len(results))
	for _, r := range results {
		a.reporter.UpdateVenueStatus(r.Venue, r.Err == nil, r.Elapsed)
		if r.Err != nil {
			a.logger.Warn(ctx, "venue unavailable this round",
				"round", round, "venue", r.Venue, "error", r.Err)
			continue
		}
		books = append(books, marketDomain.VenueBook{Venue: r.Venue, Book: r.Book})
	}

	opportunities := a.detector.Process(ctx, books)

	for _, opp := range opportunities {
		a.logOpportunity(ctx, opp)
		a.reporter.Report(opp)
	}

	elapsed := time.Since(start)

	a.rounds.Add(ctx, 1)
	a.opportunities.Add(ctx, int64(len(opportunities)))
	a.roundLatency.Record(ctx, elapsed.Seconds())

	a.reporter.RoundCompleted(RoundStats{
		Round:         round,
		Venues:        len(results),
		Books:         len(books),
		Opportunities: len(opportunities),
		Elapsed:       elapsed,
	})

	a.logger.Debug(ctx, "round completed",
		"round", round, "books", len(books),
		"opportunities", len(opportunities), "elapsed", elapsed)
}

func (a *Arbitrageur) logOpportunity(ctx context.Context, opp *domain.Opportunity) {
	a.logger.Info(ctx, "arbitrage opportunity",
		"buy_venue", opp.BuyVenue,
		"sell_venue", opp.SellVenue,
		"weighted_buy", unit.CentsToDollars(opp.WeightedBuyPrice),
		"weighted_sell", unit.CentsToDollars(opp.WeightedSellPrice),
		"amount", unit.SatoshisToCoins(opp.Amount),
		"pay", unit.NotionalToDollars(opp.Pay).StringFixed(2),
		"paid", unit.NotionalToDollars(opp.Paid).StringFixed(2),
		"profit", unit.NotionalToDollars(opp.Profit()).StringFixed(2),
		"rate", opp.ProfitRate().StringFixed(4),
		"marginal_rate", opp.MarginalRate().StringFixed(4),
	)
}

// Stop shuts the loop's reporter down. The loop itself stops with its
// context.
func (a *Arbitrageur) Stop() error {
	return a.reporter.Stop()
}
