package engine

import "errors"

// Failure kinds surfaced by the engine. All of them are detected before any
// state is mutated; callers can retry with different parameters.
var (
	// ErrInstrumentNotFound means the order named a symbol the price source
	// does not track.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrInvalidQuantity means the order quantity was zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvalidAmount means a cash operation amount was zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds means a buy or withdrawal exceeds the available
	// cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoSuchHolding means a sell named a symbol the owner holds no
	// position in.
	ErrNoSuchHolding = errors.New("no holding in this instrument")

	// ErrInsufficientHoldings means a sell exceeds the held quantity.
	ErrInsufficientHoldings = errors.New("not enough shares to sell")
)
