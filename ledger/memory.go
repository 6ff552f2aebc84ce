package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Compile-time interface check.
var _ Store = (*Memory)(nil)

// Memory is a map-backed Store. It backs the "memory" config backend and the
// test suites; FailCommit lets tests inject a storage failure at the commit
// boundary without touching state.
type Memory struct {
	mu        sync.RWMutex
	accounts  map[string]CashAccount
	positions map[string]map[string]Position // owner -> symbol -> position
	trades    []TradeRecord
	entries   []Entry

	// FailCommit, when non-nil, is returned by Commit before any state is
	// touched. The change set is dropped entirely.
	FailCommit error
}

func NewMemory() *Memory {
	return &Memory{
		accounts:  make(map[string]CashAccount),
		positions: make(map[string]map[string]Position),
	}
}

func (m *Memory) CreateCashAccount(_ context.Context, acct CashAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[acct.Owner]; ok {
		return fmt.Errorf("%w: %s", ErrAccountExists, acct.Owner)
	}
	m.accounts[acct.Owner] = acct
	return nil
}

func (m *Memory) CashAccount(_ context.Context, owner string) (CashAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acct, ok := m.accounts[owner]
	if !ok {
		return CashAccount{}, fmt.Errorf("%w: %s", ErrNoAccount, owner)
	}
	return acct, nil
}

func (m *Memory) Position(_ context.Context, owner, symbol string) (*Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.positions[owner][symbol]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) Positions(_ context.Context, owner string) ([]Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var positions []Position
	for _, p := range m.positions[owner] {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Symbol < positions[j].Symbol })
	return positions, nil
}

func (m *Memory) Trades(_ context.Context, owner string) ([]TradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trades []TradeRecord
	// Appended in commit order; walk backwards for newest first.
	for i := len(m.trades) - 1; i >= 0; i-- {
		if m.trades[i].Owner == owner {
			trades = append(trades, m.trades[i])
		}
	}
	return trades, nil
}

func (m *Memory) Entries(_ context.Context, owner string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].Owner == owner {
			entries = append(entries, m.entries[i])
		}
	}
	return entries, nil
}

func (m *Memory) Commit(_ context.Context, set ChangeSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCommit != nil {
		return m.FailCommit
	}
	if _, ok := m.accounts[set.Account.Owner]; !ok {
		return fmt.Errorf("%w: %s", ErrNoAccount, set.Account.Owner)
	}

	m.accounts[set.Account.Owner] = set.Account

	if set.Position != nil {
		p := *set.Position
		if m.positions[p.Owner] == nil {
			m.positions[p.Owner] = make(map[string]Position)
		}
		m.positions[p.Owner][p.Symbol] = p
	}
	if set.ClosePosition != "" {
		delete(m.positions[set.Account.Owner], set.ClosePosition)
	}
	if set.Entry != nil {
		m.entries = append(m.entries, *set.Entry)
	}
	if set.Trade != nil {
		m.trades = append(m.trades, *set.Trade)
	}
	return nil
}

func (m *Memory) Close() error { return nil }
