package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quantfarm/yieldsim/pkg/rng"
	"github.com/quantfarm/yieldsim/synth"
)

func TestApplySizesSumToUtilizationTarget(t *testing.T) {
	t.Parallel()

	src := rng.New(19)
	s := NewSizer(src)
	syn := synth.New(src)

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	open, close := synth.Window(date)

	for _, capital := range []float64{10000, 57500.50, 1000000} {
		trades := syn.Day(date, 88.20, capital, 0)
		s.Apply(trades, capital, open, close)

		var total float64
		for _, tr := range trades {
			total += tr.PositionSize
			assert.Greater(t, tr.PositionSize, 0.0)
		}
		assert.InDelta(t, TargetUtilization*capital, total, 0.01)
	}
}

func TestApplyLockWindows(t *testing.T) {
	t.Parallel()

	src := rng.New(47)
	s := NewSizer(src)
	syn := synth.New(src)

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	open, close := synth.Window(date)

	trades := syn.Day(date, 120, 20000, 0)
	s.Apply(trades, 20000, open, close)

	for _, tr := range trades {
		length := tr.LockEnd.Sub(tr.LockStart)
		assert.GreaterOrEqual(t, length, LockMin)
		assert.LessOrEqual(t, length, LockMax)
		assert.False(t, tr.LockStart.Before(open))
		assert.False(t, tr.LockStart.After(close))
	}
}

func TestApplyEmptyAndZeroCapital(t *testing.T) {
	t.Parallel()

	s := NewSizer(rng.New(1))

	// Nothing to do; must not panic.
	s.Apply(nil, 10000, time.Now(), time.Now())

	trades := []synth.Trade{{ProfitLoss: 1}}
	s.Apply(trades, 0, time.Now(), time.Now())
	assert.Zero(t, trades[0].PositionSize)
}
