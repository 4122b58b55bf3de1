package payout

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfarm/yieldsim/pkg/rng"
	"github.com/quantfarm/yieldsim/plan"
	"github.com/quantfarm/yieldsim/synth"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func buildPlan(t *testing.T, seed int64) *plan.Plan {
	t.Helper()

	b := plan.NewBuilder(rng.New(seed))
	pl, err := b.Build("ACC-1", 10000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return pl
}

func TestProcessCreditsOnce(t *testing.T) {
	t.Parallel()

	pl := buildPlan(t, 301)
	pr := NewProcessor(quietLogger())

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	want := pl.Periods[0].Targets[0].Amount

	res, err := pr.Process(pl, date)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, res.Status)
	assert.Equal(t, SourceSchedule, res.Source)
	assert.InDelta(t, want, res.Amount, 1e-9)
	assert.InDelta(t, want, pl.Account.Interest, 1e-9)
	assert.Equal(t, plan.DayPaid, pl.Periods[0].Targets[0].State)

	// Second invocation is the idempotent no-op.
	res2, err := pr.Process(pl, date)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyPaid, res2.Status)
	assert.InDelta(t, want, pl.Account.Interest, 1e-9)
}

func TestProcessTradeDerivedAmount(t *testing.T) {
	t.Parallel()

	pl := buildPlan(t, 302)
	pr := NewProcessor(quietLogger())

	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	target := pl.Periods[0].TargetFor(date)
	require.NotNil(t, target)

	syn := synth.New(rng.New(303))
	target.Trades = syn.Day(date, target.Amount, pl.Account.Balance, 0)

	res, err := pr.Process(pl, date)
	require.NoError(t, err)
	assert.Equal(t, SourceTrades, res.Source)
	assert.InDelta(t, target.Amount, res.Amount, 0.01)
}

func TestProcessUnknownDate(t *testing.T) {
	t.Parallel()

	pl := buildPlan(t, 304)
	pr := NewProcessor(quietLogger())

	// Date inside a scheduled (not active) period.
	_, err := pr.Process(pl, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoDailyTarget)
}

func TestProcessPeriodCompletion(t *testing.T) {
	t.Parallel()

	pl := buildPlan(t, 305)
	pr := NewProcessor(quietLogger())

	p1 := &pl.Periods[0]
	var lastRes Result
	for d := 0; d < p1.Days; d++ {
		res, err := pr.Process(pl, p1.StartDate.AddDate(0, 0, d))
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, res.Status)
		lastRes = res
	}

	assert.True(t, lastRes.PeriodCompleted)
	assert.Equal(t, plan.PeriodCompleted, pl.Periods[0].State)
	assert.Equal(t, plan.PeriodActive, pl.Periods[1].State)
	assert.Equal(t, 0, pl.Periods[0].RemainingDays)

	// Credited interest reconciles to the period target.
	assert.InDelta(t, p1.TargetAmount, pl.Account.Interest, 0.01)
}

func TestProcessAfterPlanExhausted(t *testing.T) {
	t.Parallel()

	pl := buildPlan(t, 306)
	pr := NewProcessor(quietLogger())

	for i := range pl.Periods {
		pl.Periods[i].State = plan.PeriodCompleted
	}

	_, err := pr.Process(pl, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoActivePeriod)
}

func TestProcessOutOfOrderDateIsNoOp(t *testing.T) {
	t.Parallel()

	pl := buildPlan(t, 307)
	pr := NewProcessor(quietLogger())

	_, err := pr.Process(pl, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// A date at or before the marker resolves to already-processed.
	res, err := pr.Process(pl, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyPaid, res.Status)
}
