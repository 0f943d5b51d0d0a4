// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// OpportunityRow represents one detected opportunity in the list.
type OpportunityRow struct {
	Timestamp time.Time
	BuyVenue  string
	SellVenue string
	BuyPrice  decimal.Decimal // weighted, dollars
	SellPrice decimal.Decimal // weighted, dollars
	Amount    decimal.Decimal // BTC
	Profit    decimal.Decimal // dollars
	Rate      decimal.Decimal
}

// OpportunitiesComponent renders the opportunities list, newest first.
type OpportunitiesComponent struct {
	rows    []OpportunityRow
	maxRows int
}

// NewOpportunitiesComponent creates a new opportunities component.
func NewOpportunitiesComponent(maxRows int) *OpportunitiesComponent {
	return &OpportunitiesComponent{
		rows:    make([]OpportunityRow, 0),
		maxRows: maxRows,
	}
}

// Add prepends a new opportunity to the list.
func (o *OpportunitiesComponent) Add(row OpportunityRow) {
	o.rows = append([]OpportunityRow{row}, o.rows...)
	if len(o.rows) > o.maxRows {
		o.rows = o.rows[:o.maxRows]
	}
}

// Clear clears all opportunities.
func (o *OpportunitiesComponent) Clear() {
	o.rows = make([]OpportunityRow, 0)
}

// Count returns the number of listed opportunities.
func (o *OpportunitiesComponent) Count() int {
	return len(o.rows)
}

// View renders the opportunities component.
func (o *OpportunitiesComponent) View() string {
	if len(o.rows) == 0 {
		return "No opportunities detected yet..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563EB"))
	profitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	result := headerStyle.Render(fmt.Sprintf("OPPORTUNITIES (last %d)\n", o.maxRows))
	result += "┌──────────┬───────────────────────┬──────────┬──────────┬──────────┬──────────┬─────────┐\n"
	result += "│   Time   │         Route         │   Buy    │   Sell   │  Amount  │  Profit  │  Rate   │\n"
	result += "├──────────┼───────────────────────┼──────────┼──────────┼──────────┼──────────┼─────────┤\n"

	for _, row := range o.rows {
		result += fmt.Sprintf("│ %s │ %-21s │%9s │%9s │%9s │%9s │%8s │\n",
			row.Timestamp.Format("15:04:05"),
			fmt.Sprintf("%s → %s", row.BuyVenue, row.SellVenue),
			"$"+row.BuyPrice.StringFixed(2),
			"$"+row.SellPrice.StringFixed(2),
			row.Amount.StringFixed(4),
			profitStyle.Render("$"+row.Profit.StringFixed(2)),
			row.Rate.Mul(decimal.NewFromInt(100)).StringFixed(2)+"%",
		)
	}

	result += "└──────────┴───────────────────────┴──────────┴──────────┴──────────┴──────────┴─────────┘"

	return result
}
