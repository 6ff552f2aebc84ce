package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradesim/ledger"
	"github.com/rustyeddy/tradesim/market"
)

func testCatalog(t *testing.T) *market.Catalog {
	t.Helper()
	c := market.NewCatalog()
	c.Set(market.Quote{Symbol: "TCS", Name: "Tata Consultancy Services", Price: decimal.NewFromInt(100), PreviousClose: decimal.NewFromInt(95)})
	c.Set(market.Quote{Symbol: "INFY", Name: "Infosys Ltd", Price: decimal.NewFromInt(250), PreviousClose: decimal.NewFromInt(240)})
	return c
}

func newTestEngine(t *testing.T, balance string) (*Engine, *ledger.Memory, *market.Catalog) {
	t.Helper()
	store := ledger.NewMemory()
	catalog := testCatalog(t)
	e := New(catalog, store)
	e.now = func() time.Time { return time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC) }

	require.NoError(t, e.Register(context.Background(), "alice", dec(t, balance)))
	return e, store, catalog
}

func TestExecuteWorkedExample(t *testing.T) {
	t.Parallel()

	e, store, catalog := newTestEngine(t, "1000000")
	ctx := context.Background()

	// BUY 10 @ 100
	r, err := e.Execute(ctx, "alice", "TCS", ledger.Buy, 10)
	require.NoError(t, err)
	assert.True(t, r.Balance.Equal(dec(t, "999000")), "balance %s", r.Balance)
	require.NotNil(t, r.Position)
	assert.Equal(t, int64(10), r.Position.Quantity)
	assert.True(t, r.Position.AverageCost.Equal(dec(t, "100")))
	assert.True(t, r.Position.TotalInvestment.Equal(dec(t, "1000")))

	// BUY 5 more @ 110
	require.NoError(t, catalog.SetPrice("TCS", dec(t, "110"), time.Now()))
	r, err = e.Execute(ctx, "alice", "TCS", ledger.Buy, 5)
	require.NoError(t, err)
	assert.True(t, r.Balance.Equal(dec(t, "998450")))
	require.NotNil(t, r.Position)
	assert.Equal(t, int64(15), r.Position.Quantity)
	assert.True(t, r.Position.AverageCost.Equal(dec(t, "103.33")))
	assert.True(t, r.Position.TotalInvestment.Equal(dec(t, "1550")))

	// SELL all 15 @ 120
	require.NoError(t, catalog.SetPrice("TCS", dec(t, "120"), time.Now()))
	r, err = e.Execute(ctx, "alice", "TCS", ledger.Sell, 15)
	require.NoError(t, err)
	assert.True(t, r.Balance.Equal(dec(t, "1000250")), "balance %s", r.Balance)
	assert.Nil(t, r.Position, "full liquidation must remove the position")

	pos, err := store.Position(ctx, "alice", "TCS")
	require.NoError(t, err)
	assert.Nil(t, pos)

	// One trade record per executed trade, newest first, execution prices.
	trades, err := e.TradeHistory(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, ledger.Sell, trades[0].Side)
	assert.Equal(t, int64(15), trades[0].Quantity)
	assert.True(t, trades[0].Price.Equal(dec(t, "120")))

	// One entry per balance change, each snapshotting the new balance.
	entries, err := e.Transactions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, ledger.TradeSell, entries[0].Kind)
	assert.True(t, entries[0].BalanceAfter.Equal(dec(t, "1000250")))
	assert.Equal(t, ledger.TradeBuy, entries[2].Kind)
	assert.True(t, entries[2].BalanceAfter.Equal(dec(t, "999000")))
	assert.Equal(t, "Sold 15 TCS shares", entries[0].Description)
}

func TestExecuteRejectsBeforeMutation(t *testing.T) {
	t.Parallel()

	e, store, _ := newTestEngine(t, "500")
	ctx := context.Background()

	assertUntouched := func(t *testing.T) {
		t.Helper()
		acct, err := store.CashAccount(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, acct.Balance.Equal(dec(t, "500")))

		positions, err := store.Positions(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, positions)

		trades, err := store.Trades(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, trades)

		entries, err := store.Entries(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, entries)
	}

	t.Run("unknown instrument", func(t *testing.T) {
		_, err := e.Execute(ctx, "alice", "NOPE", ledger.Buy, 1)
		assert.ErrorIs(t, err, ErrInstrumentNotFound)
		assertUntouched(t)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := e.Execute(ctx, "alice", "TCS", ledger.Buy, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assertUntouched(t)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := e.Execute(ctx, "alice", "TCS", ledger.Sell, -3)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assertUntouched(t)
	})

	t.Run("invalid side", func(t *testing.T) {
		_, err := e.Execute(ctx, "alice", "TCS", ledger.Side("SHORT"), 1)
		assert.Error(t, err)
		assertUntouched(t)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		_, err := e.Execute(ctx, "alice", "TCS", ledger.Buy, 6) // 600 > 500
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assertUntouched(t)
	})

	t.Run("no such holding", func(t *testing.T) {
		_, err := e.Execute(ctx, "alice", "TCS", ledger.Sell, 1)
		assert.ErrorIs(t, err, ErrNoSuchHolding)
		assertUntouched(t)
	})

	t.Run("unregistered owner", func(t *testing.T) {
		_, err := e.Execute(ctx, "mallory", "TCS", ledger.Buy, 1)
		assert.ErrorIs(t, err, ledger.ErrNoAccount)
	})
}

func TestExecuteSellMoreThanHeld(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, "10000")
	ctx := context.Background()

	_, err := e.Execute(ctx, "alice", "TCS", ledger.Buy, 10)
	require.NoError(t, err)

	_, err = e.Execute(ctx, "alice", "TCS", ledger.Sell, 11)
	assert.ErrorIs(t, err, ErrInsufficientHoldings)

	balance, err := e.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(t, "9000")), "failed sell must not move cash")
}

func TestExecuteAtomicityUnderCommitFailure(t *testing.T) {
	t.Parallel()

	e, store, _ := newTestEngine(t, "10000")
	ctx := context.Background()

	_, err := e.Execute(ctx, "alice", "TCS", ledger.Buy, 10)
	require.NoError(t, err)

	store.FailCommit = errors.New("disk full")
	_, err = e.Execute(ctx, "alice", "TCS", ledger.Buy, 10)
	require.Error(t, err)

	// Nothing from the failed trade is visible: cash, position, entries,
	// and trade records all match the pre-trade state.
	acct, err := store.CashAccount(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, acct.Balance.Equal(dec(t, "9000")))

	pos, err := store.Position(ctx, "alice", "TCS")
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.Equal(t, int64(10), pos.Quantity)

	trades, err := store.Trades(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, trades, 1)

	entries, err := store.Entries(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConcurrentSameOwnerTradesSerialize(t *testing.T) {
	t.Parallel()

	// Each order alone is affordable, both together are not: exactly one
	// must succeed and one fail with insufficient funds.
	e, _, _ := newTestEngine(t, "150")
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = e.Execute(ctx, "alice", "TCS", ledger.Buy, 1) // 100 each
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientFunds):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent buy must win")
	assert.Equal(t, 1, rejected, "the loser must see insufficient funds")

	balance, err := e.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(t, "50")))
	assert.False(t, balance.IsNegative())
}

func TestConcurrentDifferentOwnersBothSucceed(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, "1000")
	ctx := context.Background()
	require.NoError(t, e.Register(ctx, "bob", dec(t, "1000")))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	owners := []string{"alice", "bob"}
	for i, owner := range owners {
		wg.Add(1)
		go func(i int, owner string) {
			defer wg.Done()
			_, errs[i] = e.Execute(ctx, owner, "TCS", ledger.Buy, 5)
		}(i, owner)
	}
	wg.Wait()

	for i, owner := range owners {
		assert.NoError(t, errs[i], "owner %s", owner)
		balance, err := e.Balance(ctx, owner)
		require.NoError(t, err)
		assert.True(t, balance.Equal(dec(t, "500")))
	}
}

func TestDepositWithdrawLedgerChain(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, "1000")
	ctx := context.Background()

	balance, err := e.Deposit(ctx, "alice", dec(t, "500"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(t, "1500")))

	balance, err = e.Withdraw(ctx, "alice", dec(t, "200"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec(t, "1300")))

	_, err = e.Withdraw(ctx, "alice", dec(t, "5000"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = e.Deposit(ctx, "alice", dec(t, "-5"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	entries, err := e.Transactions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ledger.Withdrawal, entries[0].Kind)
	assert.True(t, entries[0].BalanceAfter.Equal(dec(t, "1300")))
	assert.Equal(t, ledger.Deposit, entries[1].Kind)
	assert.True(t, entries[1].BalanceAfter.Equal(dec(t, "1500")))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, "1000")
	err := e.Register(context.Background(), "alice", dec(t, "1000"))
	assert.ErrorIs(t, err, ledger.ErrAccountExists)
}
