// Package engine executes buy and sell orders against an owner's cash
// account and positions, keeping cash, holdings, and history consistent
// under concurrent access.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradesim/id"
	"github.com/rustyeddy/tradesim/ledger"
	"github.com/rustyeddy/tradesim/market"
)

// Engine orchestrates trades and cash operations. Operations for the same
// owner are serialized on a per-owner mutex; different owners never block
// each other.
type Engine struct {
	prices market.PriceSource
	store  ledger.Store
	now    func() time.Time

	mu     sync.Mutex
	owners map[string]*sync.Mutex
}

// Receipt is the result of a successfully executed trade.
type Receipt struct {
	Balance  decimal.Decimal
	Position *ledger.Position // nil when the trade closed the position
	Trade    ledger.TradeRecord
}

func New(prices market.PriceSource, store ledger.Store) *Engine {
	return &Engine{
		prices: prices,
		store:  store,
		now:    time.Now,
		owners: make(map[string]*sync.Mutex),
	}
}

// ownerLock returns the mutex serializing all operations for one owner.
func (e *Engine) ownerLock(owner string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.owners[owner]
	if !ok {
		l = &sync.Mutex{}
		e.owners[owner] = l
	}
	return l
}

// Register creates the owner's cash account with the given starting balance.
func (e *Engine) Register(ctx context.Context, owner string, balance decimal.Decimal) error {
	if owner == "" {
		return errors.New("owner must not be empty")
	}
	if balance.IsNegative() {
		return fmt.Errorf("%w: starting balance %s", ErrInvalidAmount, balance)
	}
	return e.store.CreateCashAccount(ctx, ledger.CashAccount{Owner: owner, Balance: balance})
}

// Execute runs one order end to end: validate, price, compute the next
// position, and commit the updated cash account, position, transaction
// entry, and trade record as one atomic unit.
//
// Every validation failure returns before any mutation. The single
// store.Commit call is the only write; on its failure nothing is visible.
// Repeated identical calls are not idempotent — each accepted order moves
// cash and appends a new trade record.
func (e *Engine) Execute(ctx context.Context, owner, symbol string, side ledger.Side, quantity int64) (Receipt, error) {
	if quantity <= 0 {
		return Receipt{}, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if side != ledger.Buy && side != ledger.Sell {
		return Receipt{}, fmt.Errorf("invalid trade side %q", side)
	}

	quote, err := e.prices.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, market.ErrUnknownSymbol) {
			return Receipt{}, fmt.Errorf("%w: %s", ErrInstrumentNotFound, symbol)
		}
		return Receipt{}, fmt.Errorf("price lookup: %w", err)
	}

	lock := e.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	acct, err := e.store.CashAccount(ctx, owner)
	if err != nil {
		return Receipt{}, err
	}

	position, err := e.store.Position(ctx, owner, quote.Symbol)
	if err != nil {
		return Receipt{}, err
	}

	tradeValue := quote.Price.Mul(decimal.NewFromInt(quantity))

	var description string
	switch side {
	case ledger.Buy:
		if acct.Balance.LessThan(tradeValue) {
			return Receipt{}, fmt.Errorf("%w: balance %s, trade value %s",
				ErrInsufficientFunds, acct.Balance, tradeValue)
		}
		acct.Balance = acct.Balance.Sub(tradeValue)
		description = fmt.Sprintf("Bought %d %s shares", quantity, quote.Symbol)

	case ledger.Sell:
		if position == nil {
			return Receipt{}, fmt.Errorf("%w: %s", ErrNoSuchHolding, quote.Symbol)
		}
		if position.Quantity < quantity {
			return Receipt{}, fmt.Errorf("%w: have %d, want to sell %d",
				ErrInsufficientHoldings, position.Quantity, quantity)
		}
		acct.Balance = acct.Balance.Add(tradeValue)
		description = fmt.Sprintf("Sold %d %s shares", quantity, quote.Symbol)
	}

	next, _, err := apply(position, side, quantity, quote)
	if err != nil {
		return Receipt{}, err
	}

	now := e.now()
	entryKind := ledger.TradeBuy
	if side == ledger.Sell {
		entryKind = ledger.TradeSell
	}

	trade := ledger.TradeRecord{
		ID:       id.New(),
		Owner:    owner,
		Symbol:   quote.Symbol,
		Side:     side,
		Quantity: quantity,
		Price:    quote.Price,
		Time:     now,
	}

	set := ledger.ChangeSet{
		Account: acct,
		Entry: &ledger.Entry{
			ID:           id.New(),
			Owner:        owner,
			Kind:         entryKind,
			Amount:       tradeValue,
			BalanceAfter: acct.Balance,
			Description:  description,
			Time:         now,
		},
		Trade: &trade,
	}
	if next != nil {
		next.Owner = owner
		set.Position = next
	} else {
		set.ClosePosition = quote.Symbol
	}

	if err := e.store.Commit(ctx, set); err != nil {
		return Receipt{}, fmt.Errorf("commit trade: %w", err)
	}

	return Receipt{Balance: acct.Balance, Position: next, Trade: trade}, nil
}

// Deposit adds funds to the owner's cash account and records the matching
// ledger entry atomically.
func (e *Engine) Deposit(ctx context.Context, owner string, amount decimal.Decimal) (decimal.Decimal, error) {
	return e.cashOp(ctx, owner, amount, ledger.Deposit)
}

// Withdraw removes funds from the owner's cash account, bounded by the
// available balance, and records the matching ledger entry atomically.
func (e *Engine) Withdraw(ctx context.Context, owner string, amount decimal.Decimal) (decimal.Decimal, error) {
	return e.cashOp(ctx, owner, amount, ledger.Withdrawal)
}

func (e *Engine) cashOp(ctx context.Context, owner string, amount decimal.Decimal, kind ledger.EntryKind) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}

	lock := e.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	acct, err := e.store.CashAccount(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}

	var description string
	switch kind {
	case ledger.Deposit:
		acct.Balance = acct.Balance.Add(amount)
		description = fmt.Sprintf("Deposited %s", amount)
	case ledger.Withdrawal:
		if acct.Balance.LessThan(amount) {
			return decimal.Zero, fmt.Errorf("%w: balance %s, withdrawal %s",
				ErrInsufficientFunds, acct.Balance, amount)
		}
		acct.Balance = acct.Balance.Sub(amount)
		description = fmt.Sprintf("Withdrew %s", amount)
	default:
		return decimal.Zero, fmt.Errorf("invalid cash operation %q", kind)
	}

	set := ledger.ChangeSet{
		Account: acct,
		Entry: &ledger.Entry{
			ID:           id.New(),
			Owner:        owner,
			Kind:         kind,
			Amount:       amount,
			BalanceAfter: acct.Balance,
			Description:  description,
			Time:         e.now(),
		},
	}
	if err := e.store.Commit(ctx, set); err != nil {
		return decimal.Zero, fmt.Errorf("commit %s: %w", kind, err)
	}
	return acct.Balance, nil
}

// Balance returns the owner's current cash balance.
func (e *Engine) Balance(ctx context.Context, owner string) (decimal.Decimal, error) {
	acct, err := e.store.CashAccount(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

// Transactions returns the owner's cash ledger entries, newest first.
func (e *Engine) Transactions(ctx context.Context, owner string) ([]ledger.Entry, error) {
	return e.store.Entries(ctx, owner)
}

// TradeHistory returns the owner's executed trades, newest first.
func (e *Engine) TradeHistory(ctx context.Context, owner string) ([]ledger.TradeRecord, error) {
	return e.store.Trades(ctx, owner)
}
