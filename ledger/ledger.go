// Package ledger records the transaction stream emitted by the payout
// processor: one credit per successfully paid day.
package ledger

import "time"

// Credit is one ledger entry. Source says whether the amount derived from
// materialized trade detail or straight from the schedule.
type Credit struct {
	CreditID      string
	AccountID     string
	Date          time.Time
	Amount        float64
	Source        string
	PeriodOrdinal int
	RecordedAt    time.Time
}

// Ledger is the credit sink. Implementations: SQLite and CSV.
type Ledger interface {
	RecordCredit(Credit) error
	Close() error
}

// Noop discards every credit; useful for tests and dry runs.
type Noop struct{}

func (Noop) RecordCredit(Credit) error { return nil }
func (Noop) Close() error              { return nil }
