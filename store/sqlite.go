package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quantfarm/yieldsim/plan"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS plans (
	account_id TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) SavePlan(ctx context.Context, pl *plan.Plan) error {
	data, err := json.Marshal(pl)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plans (account_id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		pl.AccountID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save plan %s: %w", pl.AccountID, err)
	}
	return nil
}

func (s *SQLite) GetPlan(ctx context.Context, accountID string) (*plan.Plan, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM plans WHERE account_id = ?`, accountID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", accountID, err)
	}

	pl := &plan.Plan{}
	if err := json.Unmarshal([]byte(data), pl); err != nil {
		return nil, fmt.Errorf("unmarshal plan %s: %w", accountID, err)
	}
	return pl, nil
}

func (s *SQLite) AccountIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT account_id FROM plans ORDER BY account_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
