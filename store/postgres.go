package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/quantfarm/yieldsim/plan"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS plans (
	account_id TEXT PRIMARY KEY,
	data JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

type Postgres struct {
	db *sql.DB
}

func NewPostgres(conn string) (*Postgres, error) {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		return nil, fmt.Errorf("create plans table: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (s *Postgres) SavePlan(ctx context.Context, pl *plan.Plan) error {
	data, err := json.Marshal(pl)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plans (account_id, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		pl.AccountID, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save plan %s: %w", pl.AccountID, err)
	}
	return nil
}

func (s *Postgres) GetPlan(ctx context.Context, accountID string) (*plan.Plan, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM plans WHERE account_id = $1`, accountID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", accountID, err)
	}

	pl := &plan.Plan{}
	if err := json.Unmarshal(data, pl); err != nil {
		return nil, fmt.Errorf("unmarshal plan %s: %w", accountID, err)
	}
	return pl, nil
}

func (s *Postgres) AccountIDs(ctx context.Context) ([]string, error) {
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

func (s *Postgres) Close() error {
	return s.db.Close()
}
