package portfolio

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradesim/ledger"
	"github.com/rustyeddy/tradesim/market"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedStore(t *testing.T) *ledger.Memory {
	t.Helper()
	ctx := context.Background()
	m := ledger.NewMemory()
	require.NoError(t, m.CreateCashAccount(ctx, ledger.CashAccount{Owner: "alice", Balance: dec(t, "1000")}))
	require.NoError(t, m.Commit(ctx, ledger.ChangeSet{
		Account: ledger.CashAccount{Owner: "alice", Balance: dec(t, "1000")},
		Position: &ledger.Position{Owner: "alice", Symbol: "TCS", Name: "Tata Consultancy Services",
			Quantity: 10, AverageCost: dec(t, "100"), TotalInvestment: dec(t, "1000")},
	}))
	require.NoError(t, m.Commit(ctx, ledger.ChangeSet{
		Account: ledger.CashAccount{Owner: "alice", Balance: dec(t, "1000")},
		Position: &ledger.Position{Owner: "alice", Symbol: "INFY", Name: "Infosys Ltd",
			Quantity: 4, AverageCost: dec(t, "250"), TotalInvestment: dec(t, "1000")},
	}))
	return m
}

func TestSummarizeRevaluesAndTotals(t *testing.T) {
	t.Parallel()

	store := seedStore(t)
	prices := market.NewCatalog()
	prices.Set(market.Quote{Symbol: "TCS", Price: dec(t, "110")})
	prices.Set(market.Quote{Symbol: "INFY", Price: dec(t, "240")})

	report, err := Summarize(context.Background(), store, prices, "alice")
	require.NoError(t, err)

	require.Len(t, report.Holdings, 2)
	// Sorted by symbol: INFY then TCS.
	assert.Equal(t, "INFY", report.Holdings[0].Symbol)
	assert.True(t, report.Holdings[0].CurrentValue.Equal(dec(t, "960")))
	assert.True(t, report.Holdings[0].ProfitLoss.Equal(dec(t, "-40")))
	assert.True(t, report.Holdings[1].CurrentValue.Equal(dec(t, "1100")))

	assert.True(t, report.TotalInvestment.Equal(dec(t, "2000")))
	assert.True(t, report.CurrentValue.Equal(dec(t, "2060")))
	assert.True(t, report.ProfitLoss.Equal(dec(t, "60")))
	// 60/2000 = 0.03 -> 3%
	assert.True(t, report.ProfitLossPercent.Equal(dec(t, "3")), "got %s", report.ProfitLossPercent)
}

func TestSummarizeEmptyPortfolio(t *testing.T) {
	t.Parallel()

	m := ledger.NewMemory()
	require.NoError(t, m.CreateCashAccount(context.Background(),
		ledger.CashAccount{Owner: "bob", Balance: dec(t, "100")}))

	report, err := Summarize(context.Background(), m, market.NewCatalog(), "bob")
	require.NoError(t, err)
	assert.Empty(t, report.Holdings)
	assert.True(t, report.ProfitLoss.IsZero())
	assert.True(t, report.ProfitLossPercent.IsZero())
}

func TestSummarizeUnpricedHolding(t *testing.T) {
	t.Parallel()

	store := seedStore(t)
	prices := market.NewCatalog() // nothing listed

	_, err := Summarize(context.Background(), store, prices, "alice")
	assert.ErrorIs(t, err, market.ErrUnknownSymbol)
}
