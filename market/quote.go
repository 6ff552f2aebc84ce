package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the latest known state of a tracked instrument. Price is the
// tradable price used by the engine; the remaining fields describe the
// current session.
type Quote struct {
	Symbol        string
	Name          string
	Price         decimal.Decimal
	PreviousClose decimal.Decimal
	Open          decimal.Decimal
	DayHigh       decimal.Decimal
	DayLow        decimal.Decimal
	Volume        int64
	Updated       time.Time
}

// Change returns the absolute move since the previous close.
func (q Quote) Change() decimal.Decimal {
	return q.Price.Sub(q.PreviousClose)
}

// ChangePercent returns the percentage move since the previous close,
// rounded half-up to four fractional digits before scaling to percent.
// Returns zero when there is no previous close to compare against.
func (q Quote) ChangePercent() decimal.Decimal {
	if q.PreviousClose.IsZero() {
		return decimal.Zero
	}
	return q.Change().DivRound(q.PreviousClose, 4).Mul(decimal.NewFromInt(100))
}
