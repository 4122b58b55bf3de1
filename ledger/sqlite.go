package ledger

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (l *SQLite) RecordCredit(c Credit) error {
	_, err := l.db.Exec(`
		INSERT INTO credits
		(credit_id, account_id, date, amount, source, period_ordinal, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.CreditID, c.AccountID, c.Date, c.Amount, c.Source, c.PeriodOrdinal, c.RecordedAt,
	)
	return err
}

// CreditsByAccount returns an account's credits ordered by date.
func (l *SQLite) CreditsByAccount(accountID string) ([]Credit, error) {
	return l.query(`
		SELECT credit_id, account_id, date, amount, source, period_ordinal, recorded_at
		FROM credits WHERE account_id = ? ORDER BY date`, accountID)
}

// CreditsBetween returns an account's credits with from <= date < to.
func (l *SQLite) CreditsBetween(accountID string, from, to time.Time) ([]Credit, error) {
	return l.query(`
		SELECT credit_id, account_id, date, amount, source, period_ordinal, recorded_at
		FROM credits WHERE account_id = ? AND date >= ? AND date < ? ORDER BY date`,
		accountID, from, to)
}

func (l *SQLite) query(q string, args ...any) ([]Credit, error) {
	rows, err := l.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Credit
	for rows.Next() {
		var c Credit
		if err := rows.Scan(&c.CreditID, &c.AccountID, &c.Date, &c.Amount,
			&c.Source, &c.PeriodOrdinal, &c.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (l *SQLite) Close() error {
	return l.db.Close()
}
