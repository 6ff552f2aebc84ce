package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Compile-time interface check.
var _ Store = (*SQLite)(nil)

// SQLite is the durable Store backend. All four record kinds live in one
// database file, so Commit maps directly onto a single SQL transaction.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) CreateCashAccount(ctx context.Context, acct CashAccount) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cash_accounts (owner, balance) VALUES (?, ?)`,
		acct.Owner, acct.Balance.String(),
	)
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
		return fmt.Errorf("%w: %s", ErrAccountExists, acct.Owner)
	}
	return err
}

func (s *SQLite) CashAccount(ctx context.Context, owner string) (CashAccount, error) {
	var balance string
	err := s.db.QueryRowContext(ctx, `
		SELECT balance FROM cash_accounts WHERE owner = ?`, owner).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return CashAccount{}, fmt.Errorf("%w: %s", ErrNoAccount, owner)
	}
	if err != nil {
		return CashAccount{}, err
	}

	bal, err := decimal.NewFromString(balance)
	if err != nil {
		return CashAccount{}, fmt.Errorf("corrupt balance for %s: %w", owner, err)
	}
	return CashAccount{Owner: owner, Balance: bal}, nil
}

func (s *SQLite) Position(ctx context.Context, owner, symbol string) (*Position, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT owner, symbol, name, quantity, average_cost, total_investment, current_value, profit_loss
		FROM positions WHERE owner = ? AND symbol = ?`, owner, symbol)

	p, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLite) Positions(ctx context.Context, owner string) ([]Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT owner, symbol, name, quantity, average_cost, total_investment, current_value, profit_loss
		FROM positions WHERE owner = ? ORDER BY symbol`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (s *SQLite) Trades(ctx context.Context, owner string) ([]TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, owner, symbol, side, quantity, price, executed_at
		FROM trades WHERE owner = ? ORDER BY executed_at DESC, trade_id DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []TradeRecord
	for rows.Next() {
		var (
			t     TradeRecord
			side  string
			price string
		)
		if err := rows.Scan(&t.ID, &t.Owner, &t.Symbol, &side, &t.Quantity, &price, &t.Time); err != nil {
			return nil, err
		}
		t.Side = Side(side)
		if t.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("corrupt price on trade %s: %w", t.ID, err)
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *SQLite) Entries(ctx context.Context, owner string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_id, owner, kind, amount, balance_after, description, created_at
		FROM entries WHERE owner = ? ORDER BY created_at DESC, entry_id DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			kind    string
			amount  string
			balance string
		)
		if err := rows.Scan(&e.ID, &e.Owner, &kind, &amount, &balance, &e.Description, &e.Time); err != nil {
			return nil, err
		}
		e.Kind = EntryKind(kind)
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt amount on entry %s: %w", e.ID, err)
		}
		if e.BalanceAfter, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("corrupt balance on entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Commit applies the change set inside one transaction. The deferred
// rollback is a no-op once the transaction commits, so any early return
// leaves the database untouched.
func (s *SQLite) Commit(ctx context.Context, set ChangeSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE cash_accounts SET balance = ? WHERE owner = ?`,
		set.Account.Balance.String(), set.Account.Owner,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n != 1 {
		return fmt.Errorf("%w: %s", ErrNoAccount, set.Account.Owner)
	}

	if set.Position != nil {
		p := set.Position
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO positions (owner, symbol, name, quantity, average_cost, total_investment, current_value, profit_loss)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(owner, symbol) DO UPDATE SET
				name = excluded.name,
				quantity = excluded.quantity,
				average_cost = excluded.average_cost,
				total_investment = excluded.total_investment,
				current_value = excluded.current_value,
				profit_loss = excluded.profit_loss`,
			p.Owner, p.Symbol, p.Name, p.Quantity,
			p.AverageCost.String(), p.TotalInvestment.String(),
			p.CurrentValue.String(), p.ProfitLoss.String(),
		); err != nil {
			return err
		}
	}

	if set.ClosePosition != "" {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM positions WHERE owner = ? AND symbol = ?`,
			set.Account.Owner, set.ClosePosition,
		); err != nil {
			return err
		}
	}

	if set.Entry != nil {
		e := set.Entry
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entries (entry_id, owner, kind, amount, balance_after, description, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Owner, string(e.Kind), e.Amount.String(),
			e.BalanceAfter.String(), e.Description, e.Time,
		); err != nil {
			return err
		}
	}

	if set.Trade != nil {
		t := set.Trade
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO trades (trade_id, owner, symbol, side, quantity, price, executed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Owner, t.Symbol, string(t.Side), t.Quantity,
			t.Price.String(), t.Time,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPosition(row scanner) (Position, error) {
	var p Position
	var avgCost, totalInv, curValue, pl string
	if err := row.Scan(&p.Owner, &p.Symbol, &p.Name, &p.Quantity, &avgCost, &totalInv, &curValue, &pl); err != nil {
		return Position{}, err
	}

	var err error
	if p.AverageCost, err = decimal.NewFromString(avgCost); err != nil {
		return Position{}, fmt.Errorf("corrupt average cost for %s/%s: %w", p.Owner, p.Symbol, err)
	}
	if p.TotalInvestment, err = decimal.NewFromString(totalInv); err != nil {
		return Position{}, fmt.Errorf("corrupt total investment for %s/%s: %w", p.Owner, p.Symbol, err)
	}
	if p.CurrentValue, err = decimal.NewFromString(curValue); err != nil {
		return Position{}, fmt.Errorf("corrupt current value for %s/%s: %w", p.Owner, p.Symbol, err)
	}
	if p.ProfitLoss, err = decimal.NewFromString(pl); err != nil {
		return Position{}, fmt.Errorf("corrupt profit/loss for %s/%s: %w", p.Owner, p.Symbol, err)
	}
	return p, nil
}
