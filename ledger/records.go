// Package ledger holds the persisted records of the simulation (cash
// accounts, positions, trade records, and transaction entries) and the
// storage backends that keep them consistent.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade. Parse validates the two variants once at
// the boundary; everything past that point switches on the typed value.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// ParseSide converts a user-supplied string into a Side.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(s)) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("invalid trade side %q (want BUY or SELL)", s)
	}
}

// EntryKind classifies a transaction entry.
type EntryKind string

const (
	Deposit    EntryKind = "DEPOSIT"
	Withdrawal EntryKind = "WITHDRAWAL"
	TradeBuy   EntryKind = "TRADE_BUY"
	TradeSell  EntryKind = "TRADE_SELL"
)

// CashAccount is an owner's virtual cash balance. One per owner, created at
// registration, never deleted. Balance must never go negative.
type CashAccount struct {
	Owner   string
	Balance decimal.Decimal
}

// Position is the aggregate holding of one owner in one instrument. At most
// one row exists per (owner, symbol); a position is deleted outright when its
// quantity reaches zero, never stored at zero.
//
// TotalInvestment tracks Quantity × AverageCost within rounding tolerance.
// CurrentValue and ProfitLoss are revalued at the execution price of the
// trade that last touched the row.
type Position struct {
	Owner           string
	Symbol          string
	Name            string
	Quantity        int64
	AverageCost     decimal.Decimal
	TotalInvestment decimal.Decimal
	CurrentValue    decimal.Decimal
	ProfitLoss      decimal.Decimal
}

// TradeRecord is the immutable log line of one executed trade. Price is the
// execution price, not the position's average cost.
type TradeRecord struct {
	ID       string
	Owner    string
	Symbol   string
	Side     Side
	Quantity int64
	Price    decimal.Decimal
	Time     time.Time
}

// Entry is one immutable line of the cash ledger. BalanceAfter snapshots the
// account balance the moment the entry was written, so the balance is
// auditable from its entries alone.
type Entry struct {
	ID           string
	Owner        string
	Kind         EntryKind
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Description  string
	Time         time.Time
}
