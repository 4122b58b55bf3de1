package ledger

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	l, err := NewSQLite(path)
	require.NoError(t, err)
	return l, path
}

func testCredit(day int) Credit {
	return Credit{
		CreditID:      "C" + time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC).Format("20060102"),
		AccountID:     "ACC-1",
		Date:          time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Amount:        float64(day) * 1.5,
		Source:        "schedule",
		PeriodOrdinal: 1,
		RecordedAt:    time.Date(2024, 1, day, 0, 5, 0, 0, time.UTC),
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	l, path := newTestSQLite(t)
	assert.NoError(t, l.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='credits'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "credits", name)
}

func TestSQLiteRecordAndQuery(t *testing.T) {
	t.Parallel()

	l, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = l.Close() })

	for d := 1; d <= 5; d++ {
		require.NoError(t, l.RecordCredit(testCredit(d)))
	}

	all, err := l.CreditsByAccount("ACC-1")
	require.NoError(t, err)
	require.Len(t, all, 5)

	got := all[2]
	want := testCredit(3)
	assert.Equal(t, want.CreditID, got.CreditID)
	assert.Equal(t, want.AccountID, got.AccountID)
	assert.True(t, got.Date.Equal(want.Date))
	assert.InDelta(t, want.Amount, got.Amount, 1e-9)
	assert.Equal(t, want.Source, got.Source)
	assert.Equal(t, want.PeriodOrdinal, got.PeriodOrdinal)
}

func TestSQLiteCreditsBetween(t *testing.T) {
	t.Parallel()

	l, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = l.Close() })

	for d := 1; d <= 10; d++ {
		require.NoError(t, l.RecordCredit(testCredit(d)))
	}

	from := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	got, err := l.CreditsBetween("ACC-1", from, to)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	missing, err := l.CreditsByAccount("NO-SUCH")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestSQLiteDuplicateCreditID(t *testing.T) {
	t.Parallel()

	l, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = l.Close() })

	c := testCredit(1)
	require.NoError(t, l.RecordCredit(c))
	assert.Error(t, l.RecordCredit(c))
}
