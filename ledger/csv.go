package ledger

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"credit_id", "account_id", "date", "amount", "source", "period_ordinal", "recorded_at"}); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &CSV{w: w, f: f}, nil
}

func (l *CSV) RecordCredit(c Credit) error {
	err := l.w.Write([]string{
		c.CreditID,
		c.AccountID,
		c.Date.Format(time.RFC3339),
		strconv.FormatFloat(c.Amount, 'f', 2, 64),
		c.Source,
		strconv.Itoa(c.PeriodOrdinal),
		c.RecordedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	l.w.Flush()
	return l.w.Error()
}

func (l *CSV) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return err
	}
	return l.f.Close()
}
