package market

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnknownSymbol is returned when an instrument is not listed in the catalog.
var ErrUnknownSymbol = errors.New("unknown symbol")

// PriceSource resolves an instrument symbol to its current quote.
type PriceSource interface {
	GetQuote(ctx context.Context, symbol string) (Quote, error)
}

// Catalog is an in-memory quote store keyed by symbol. Safe for concurrent
// use; the engine reads quotes while price updates arrive on other goroutines.
type Catalog struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewCatalog() *Catalog {
	return &Catalog{quotes: make(map[string]Quote)}
}

// Set lists or replaces the quote for q.Symbol. Symbols are uppercased.
func (c *Catalog) Set(q Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q.Symbol = strings.ToUpper(q.Symbol)
	c.quotes[q.Symbol] = q
}

// GetQuote implements PriceSource. Lookups are case-insensitive.
func (c *Catalog) GetQuote(_ context.Context, symbol string) (Quote, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[strings.ToUpper(symbol)]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return q, nil
}

// SetPrice moves the tradable price of a listed symbol, extending the day
// range when the new price breaches it. Unlisted symbols report ErrUnknownSymbol.
func (c *Catalog) SetPrice(symbol string, price decimal.Decimal, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToUpper(symbol)
	q, ok := c.quotes[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	q.Price = price
	if price.GreaterThan(q.DayHigh) {
		q.DayHigh = price
	}
	if price.LessThan(q.DayLow) || q.DayLow.IsZero() {
		q.DayLow = price
	}
	q.Updated = at
	c.quotes[key] = q
	return nil
}

// List returns all listed quotes sorted by symbol.
func (c *Catalog) List() []Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	quotes := make([]Quote, 0, len(c.quotes))
	for _, q := range c.quotes {
		quotes = append(quotes, q)
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Symbol < quotes[j].Symbol })
	return quotes
}
