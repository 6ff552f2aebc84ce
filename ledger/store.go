package ledger

import (
	"context"
	"errors"
)

var (
	// ErrNoAccount means the owner has no cash account. For a registered
	// owner this should be impossible; callers treat it as fatal.
	ErrNoAccount = errors.New("cash account not found")

	// ErrAccountExists means a cash account was already registered for the owner.
	ErrAccountExists = errors.New("cash account already exists")
)

// ChangeSet is the atomic unit of one committed operation: the updated cash
// account, the position to upsert or close, and the append-only entry and
// trade record. Either every member lands or none does.
//
// Position and ClosePosition are mutually exclusive; both empty means the
// operation did not touch holdings (deposits, withdrawals). Trade is nil for
// cash-only operations.
type ChangeSet struct {
	Account       CashAccount
	Position      *Position
	ClosePosition string // symbol of the position to delete, "" for none
	Entry         *Entry
	Trade         *TradeRecord
}

// Store is keyed durable storage for the four record kinds. Reads are
// single-record or by-owner; the only mutation beyond registration is the
// all-or-nothing Commit.
type Store interface {
	// CreateCashAccount registers a new account. ErrAccountExists when the
	// owner already has one.
	CreateCashAccount(ctx context.Context, acct CashAccount) error

	// CashAccount returns the owner's account, ErrNoAccount when absent.
	CashAccount(ctx context.Context, owner string) (CashAccount, error)

	// Position returns the owner's position in symbol, or nil when there is none.
	Position(ctx context.Context, owner, symbol string) (*Position, error)

	// Positions returns all of the owner's positions sorted by symbol.
	Positions(ctx context.Context, owner string) ([]Position, error)

	// Trades returns the owner's trade records, newest first.
	Trades(ctx context.Context, owner string) ([]TradeRecord, error)

	// Entries returns the owner's transaction entries, newest first.
	Entries(ctx context.Context, owner string) ([]Entry, error)

	// Commit applies the change set atomically. On error nothing is visible.
	Commit(ctx context.Context, set ChangeSet) error

	Close() error
}
