package ledger

const Schema = `
CREATE TABLE IF NOT EXISTS cash_accounts (
	owner TEXT PRIMARY KEY,
	balance TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS positions (
	owner TEXT NOT NULL,
	symbol TEXT NOT NULL,
	name TEXT NOT NULL,
	quantity INTEGER NOT NULL CHECK (quantity > 0),
	average_cost TEXT NOT NULL,
	total_investment TEXT NOT NULL,
	current_value TEXT NOT NULL,
	profit_loss TEXT NOT NULL,
	PRIMARY KEY (owner, symbol)
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL CHECK (side IN ('BUY','SELL')),
	quantity INTEGER NOT NULL CHECK (quantity > 0),
	price TEXT NOT NULL,
	executed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_owner ON trades(owner, executed_at);

CREATE TABLE IF NOT EXISTS entries (
	entry_id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	kind TEXT NOT NULL,
	amount TEXT NOT NULL,
	balance_after TEXT NOT NULL,
	description TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_owner ON entries(owner, created_at);
`
