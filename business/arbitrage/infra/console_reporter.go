// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arbx/arbitrageur/business/arbitrage/app"
	"github.com/arbx/arbitrageur/business/arbitrage/domain"
	"github.com/arbx/arbitrageur/internal/unit"
)

// ConsoleReporter implements app.Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// NewConsoleReporterTo creates a ConsoleReporter writing to out.
func NewConsoleReporterTo(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Start prints the startup banner.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "BTC Arbitrageur Started")
	fmt.Fprintln(r.out, "=======================")
	return nil
}

// Report outputs an arbitrage opportunity to the console.
func (r *ConsoleReporter) Report(opp *domain.Opportunity) {
	pct := decimal.NewFromInt(100)

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintln(r.out, "ARBITRAGE OPPORTUNITY DETECTED")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Timestamp:      %s\n", opp.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Route:          buy %s, sell %s\n", opp.BuyVenue, opp.SellVenue)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "PRICES")
	fmt.Fprintf(r.out, "  Buy (%s):     $%s .. $%s, weighted $%s\n",
		opp.BuyVenue,
		unit.CentsToDollars(opp.MinBuyPrice).StringFixed(2),
		unit.CentsToDollars(opp.MaxBuyPrice).StringFixed(2),
		unit.CentsToDollars(opp.WeightedBuyPrice).StringFixed(2))
	fmt.Fprintf(r.out, "  Sell (%s):    $%s .. $%s, weighted $%s\n",
		opp.SellVenue,
		unit.CentsToDollars(opp.MinSellPrice).StringFixed(2),
		unit.CentsToDollars(opp.MaxSellPrice).StringFixed(2),
		unit.CentsToDollars(opp.WeightedSellPrice).StringFixed(2))
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "TRADE DETAILS")
	fmt.Fprintf(r.out, "  Amount:         %s BTC\n", unit.SatoshisToCoins(opp.Amount).StringFixed(8))
	fmt.Fprintf(r.out, "  Pay:            $%s\n", unit.NotionalToDollars(opp.Pay).StringFixed(2))
	fmt.Fprintf(r.out, "  Paid:           $%s\n", unit.NotionalToDollars(opp.Paid).StringFixed(2))
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "PROFIT")
	fmt.Fprintf(r.out, "  Net:            $%s (%s%%)\n",
		unit.NotionalToDollars(opp.Profit()).StringFixed(2),
		opp.ProfitRate().Mul(pct).StringFixed(2))
	fmt.Fprintf(r.out, "  Marginal:       %s%%\n", opp.MarginalRate().Mul(pct).StringFixed(2))
	fmt.Fprintln(r.out, "================================================================================")
}

// UpdateVenueStatus outputs venue availability changes.
func (r *ConsoleReporter) UpdateVenueStatus(venue string, available bool, latency time.Duration) {
	status := "down"
	if available {
		status = fmt.Sprintf("up (%s)", latency.Round(time.Millisecond))
	}
	fmt.Fprintf(r.out, "[%s] %s: %s\n", time.Now().Format("15:04:05"), venue, status)
}

// RoundCompleted outputs a one-line round summary.
func (r *ConsoleReporter) RoundCompleted(stats app.RoundStats) {
	fmt.Fprintf(r.out, "[%s] round %d: %d/%d books, %d opportunities (%s)\n",
		time.Now().Format("15:04:05"),
		stats.Round, stats.Books, stats.Venues, stats.Opportunities,
		stats.Elapsed.Round(time.Millisecond))
}

// Stop prints the shutdown notice.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "BTC Arbitrageur Stopped")
	return nil
}
