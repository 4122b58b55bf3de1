package ledger

const Schema = `
CREATE TABLE IF NOT EXISTS credits (
	credit_id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	amount REAL NOT NULL,
	source TEXT NOT NULL,
	period_ordinal INTEGER NOT NULL,
	recorded_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_credits_account ON credits(account_id, date);
`
