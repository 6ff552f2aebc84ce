// Package portfolio builds the read-side view of an owner's holdings.
package portfolio

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradesim/ledger"
	"github.com/rustyeddy/tradesim/market"
)

// Report is an owner's holdings revalued at current prices, with the
// aggregate totals the dashboard shows.
type Report struct {
	Holdings          []ledger.Position
	TotalInvestment   decimal.Decimal
	CurrentValue      decimal.Decimal
	ProfitLoss        decimal.Decimal
	ProfitLossPercent decimal.Decimal
}

// Summarize loads the owner's positions, revalues each against the current
// quote, and totals them. ProfitLossPercent is rounded half-up to four
// fractional digits before scaling to percent; it stays zero when nothing
// is invested.
func Summarize(ctx context.Context, store ledger.Store, prices market.PriceSource, owner string) (Report, error) {
	positions, err := store.Positions(ctx, owner)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		TotalInvestment: decimal.Zero,
		CurrentValue:    decimal.Zero,
	}
	for _, p := range positions {
		quote, err := prices.GetQuote(ctx, p.Symbol)
		if err != nil {
			return Report{}, fmt.Errorf("revalue %s: %w", p.Symbol, err)
		}
		p.CurrentValue = quote.Price.Mul(decimal.NewFromInt(p.Quantity))
		p.ProfitLoss = p.CurrentValue.Sub(p.TotalInvestment)

		r.Holdings = append(r.Holdings, p)
		r.TotalInvestment = r.TotalInvestment.Add(p.TotalInvestment)
		r.CurrentValue = r.CurrentValue.Add(p.CurrentValue)
	}

	r.ProfitLoss = r.CurrentValue.Sub(r.TotalInvestment)
	r.ProfitLossPercent = decimal.Zero
	if r.TotalInvestment.IsPositive() {
		r.ProfitLossPercent = r.ProfitLoss.DivRound(r.TotalInvestment, 4).Mul(decimal.NewFromInt(100))
	}
	return r, nil
}
