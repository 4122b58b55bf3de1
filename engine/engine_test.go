package engine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfarm/yieldsim/ledger"
	"github.com/quantfarm/yieldsim/payout"
	"github.com/quantfarm/yieldsim/pkg/rng"
	"github.com/quantfarm/yieldsim/plan"
	"github.com/quantfarm/yieldsim/rate"
	"github.com/quantfarm/yieldsim/store"
	"github.com/quantfarm/yieldsim/synth"
)

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	e, err := New(Options{
		Store:  store.NewMemory(),
		Ledger: ledger.Noop{},
		Rand:   rng.New(seed),
		Logger: log,
	})
	require.NoError(t, err)
	return e
}

var activation = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestActivateIdempotent(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 501)
	ctx := context.Background()

	pl, created, err := e.Activate(ctx, "ACC-1", 10000, activation)
	require.NoError(t, err)
	assert.True(t, created)

	// Second activation returns the persisted plan, not a new one.
	again, created, err := e.Activate(ctx, "ACC-1", 99999, activation.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, pl.Periods[0].Rate, again.Periods[0].Rate)
	assert.InDelta(t, 10000.0, again.Account.Principal, 1e-9)
}

func TestActivateRequiresStore(t *testing.T) {
	t.Parallel()

	_, err := New(Options{})
	assert.Error(t, err)
}

func TestEndToEndFirstPeriod(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 502)
	ctx := context.Background()

	pl, _, err := e.Activate(ctx, "ACC-1", 10000, activation)
	require.NoError(t, err)

	p1 := pl.Periods[0]
	assert.GreaterOrEqual(t, p1.Rate, rate.FirstPeriodMin)
	assert.LessOrEqual(t, p1.Rate, rate.FirstPeriodMax)
	assert.Equal(t, 31, p1.Days)

	for d := 0; d < 31; d++ {
		res, err := e.ProcessPayout(ctx, "ACC-1", activation.AddDate(0, 0, d))
		require.NoError(t, err)
		assert.Equal(t, payout.StatusPaid, res.Status)
		// Every day is materialized before payment, so credits derive from
		// trade detail.
		assert.Equal(t, payout.SourceTrades, res.Source)
	}

	got, err := e.store.GetPlan(ctx, "ACC-1")
	require.NoError(t, err)
	assert.InDelta(t, p1.TargetAmount, got.Account.Interest, 0.01)
	assert.Equal(t, plan.PeriodCompleted, got.Periods[0].State)
	assert.Equal(t, plan.PeriodActive, got.Periods[1].State)
}

func TestProcessPayoutIdempotent(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 503)
	ctx := context.Background()

	_, _, err := e.Activate(ctx, "ACC-1", 10000, activation)
	require.NoError(t, err)

	res1, err := e.ProcessPayout(ctx, "ACC-1", activation)
	require.NoError(t, err)
	require.Equal(t, payout.StatusPaid, res1.Status)

	res2, err := e.ProcessPayout(ctx, "ACC-1", activation)
	require.NoError(t, err)
	assert.Equal(t, payout.StatusAlreadyPaid, res2.Status)

	got, err := e.store.GetPlan(ctx, "ACC-1")
	require.NoError(t, err)
	assert.InDelta(t, res1.Amount, got.Account.Interest, 1e-9)
}

func TestDayTradesLazyMaterialization(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 504)
	ctx := context.Background()

	_, _, err := e.Activate(ctx, "ACC-1", 10000, activation)
	require.NoError(t, err)

	date := activation.AddDate(0, 0, 4)
	trades, err := e.DayTrades(ctx, "ACC-1", date)
	require.NoError(t, err)
	require.NotEmpty(t, trades)

	// Trade detail reconciles with the daily target and is persisted.
	day, err := e.Day(ctx, "ACC-1", date)
	require.NoError(t, err)
	assert.InDelta(t, day.Amount, synth.Sum(trades), 0.01)
	assert.Equal(t, payout.SourceTrades, day.Source)

	again, err := e.DayTrades(ctx, "ACC-1", date)
	require.NoError(t, err)
	require.Len(t, again, len(trades))
	assert.Equal(t, trades[0].ID, again[0].ID)

	// Position sizes were applied.
	var sized float64
	for _, tr := range trades {
		sized += tr.PositionSize
	}
	assert.InDelta(t, 0.80*10000, sized, 0.01)
}

func TestInjectMidPeriod(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 505)
	ctx := context.Background()

	_, _, err := e.Activate(ctx, "ACC-1", 10000, activation)
	require.NoError(t, err)

	// Pay the first ten days.
	for d := 0; d < 10; d++ {
		_, err := e.ProcessPayout(ctx, "ACC-1", activation.AddDate(0, 0, d))
		require.NoError(t, err)
	}

	before, err := e.store.GetPlan(ctx, "ACC-1")
	require.NoError(t, err)
	paidBefore := make([]plan.DailyTarget, 10)
	copy(paidBefore, before.Periods[0].Targets[:10])

	pl, err := e.Inject(ctx, "ACC-1", 5000, activation.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.InDelta(t, 15000.0, pl.Account.Balance, 1e-9)
	require.Len(t, pl.Injections, 1)

	// Paid history untouched (trade detail aside, amounts and states exact).
	for i := 0; i < 10; i++ {
		got := pl.Periods[0].Targets[i]
		assert.Equal(t, paidBefore[i].Amount, got.Amount)
		assert.Equal(t, plan.DayPaid, got.State)
		assert.True(t, got.Date.Equal(paidBefore[i].Date))
	}

	// Payouts continue against the reconciled schedule to completion.
	p1 := pl.Periods[0]
	for d := 10; d < p1.Days; d++ {
		_, err := e.ProcessPayout(ctx, "ACC-1", activation.AddDate(0, 0, d))
		require.NoError(t, err)
	}

	got, err := e.store.GetPlan(ctx, "ACC-1")
	require.NoError(t, err)
	assert.Equal(t, plan.PeriodCompleted, got.Periods[0].State)
	assert.InDelta(t, p1.TargetAmount, got.Account.Interest, 0.02)
}

func TestInjectUnknownAccount(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 506)
	_, err := e.Inject(context.Background(), "NO-SUCH", 1000, activation)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRunDailyPayouts(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 507)
	ctx := context.Background()

	_, _, err := e.Activate(ctx, "ACC-1", 10000, activation)
	require.NoError(t, err)
	_, _, err = e.Activate(ctx, "ACC-2", 20000, activation)
	require.NoError(t, err)

	credited := e.RunDailyPayouts(ctx, activation)
	assert.Equal(t, 2, credited)

	// Re-running the same date is a clean no-op across the board.
	credited = e.RunDailyPayouts(ctx, activation)
	assert.Equal(t, 0, credited)
}

func TestProgress(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, 508)
	ctx := context.Background()

	_, _, err := e.Activate(ctx, "ACC-1", 10000, activation)
	require.NoError(t, err)

	_, err = e.ProcessPayout(ctx, "ACC-1", activation)
	require.NoError(t, err)

	prog, err := e.Progress(ctx, "ACC-1")
	require.NoError(t, err)
	assert.Equal(t, 1, prog.PeriodOrdinal)
	assert.Equal(t, 30, prog.RemainingDays)
	assert.Greater(t, prog.PaidSoFar, 0.0)
	assert.InDelta(t, prog.Target, prog.PaidSoFar+prog.Remaining, 1e-6)
}
