package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradesim/ledger"
	"github.com/rustyeddy/tradesim/market"
)

// avgCostScale is the number of fractional digits kept on the average cost
// basis. Averages are rounded half-up so repeated partial buys converge to a
// stable, reproducible value.
const avgCostScale = 2

// apply computes the position resulting from one order against the current
// position, plus the cash amount the order moves. Pure computation: no I/O,
// no mutation of current.
//
// A nil current means no existing position. A nil next means the position
// closed and the stored row must be deleted.
func apply(current *ledger.Position, side ledger.Side, quantity int64, quote market.Quote) (next *ledger.Position, tradeValue decimal.Decimal, err error) {
	qty := decimal.NewFromInt(quantity)
	tradeValue = quote.Price.Mul(qty)

	switch side {
	case ledger.Buy:
		if current == nil {
			next = &ledger.Position{
				Symbol:          quote.Symbol,
				Name:            quote.Name,
				Quantity:        quantity,
				AverageCost:     quote.Price,
				TotalInvestment: tradeValue,
			}
			break
		}
		newQuantity := current.Quantity + quantity
		newTotal := current.TotalInvestment.Add(tradeValue)
		next = &ledger.Position{
			Owner:           current.Owner,
			Symbol:          current.Symbol,
			Name:            current.Name,
			Quantity:        newQuantity,
			AverageCost:     newTotal.DivRound(decimal.NewFromInt(newQuantity), avgCostScale),
			TotalInvestment: newTotal,
		}

	case ledger.Sell:
		if current == nil || current.Quantity < quantity {
			return nil, decimal.Zero, ErrInsufficientHoldings
		}
		newQuantity := current.Quantity - quantity
		if newQuantity == 0 {
			// Fully liquidated; the row is removed, never stored at zero.
			return nil, tradeValue, nil
		}
		// Selling never reprices the remaining shares: the average cost
		// stays put and the cost basis falls by exactly what the sold
		// shares carried.
		soldCost := current.AverageCost.Mul(qty)
		next = &ledger.Position{
			Owner:           current.Owner,
			Symbol:          current.Symbol,
			Name:            current.Name,
			Quantity:        newQuantity,
			AverageCost:     current.AverageCost,
			TotalInvestment: current.TotalInvestment.Sub(soldCost),
		}

	default:
		return nil, decimal.Zero, fmt.Errorf("invalid trade side %q", side)
	}

	next.CurrentValue = quote.Price.Mul(decimal.NewFromInt(next.Quantity))
	next.ProfitLoss = next.CurrentValue.Sub(next.TotalInvestment)
	return next, tradeValue, nil
}
