package volatility

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantfarm/yieldsim/pkg/rng"
)

func sum(days []Day) float64 {
	var s float64
	for _, d := range days {
		s += d.Amount
	}
	return s
}

func TestDistributeSumsToTotal(t *testing.T) {
	t.Parallel()

	src := rng.New(11)

	cases := []struct {
		name    string
		total   float64
		balance float64
		days    int
	}{
		{"month_profit", 2100.00, 10000, 31},
		{"short_period", 333.33, 5000, 7},
		{"single_day", 160.55, 1000, 1},
		{"large_balance", 48210.77, 250000, 30},
		{"losing_period", -1500.00, 10000, 28},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days := Distribute(src, tc.total, tc.balance, tc.days, 0)
			assert.Len(t, days, tc.days)
			assert.InDelta(t, tc.total, sum(days), 0.01)
		})
	}
}

func TestDistributeWinRatio(t *testing.T) {
	t.Parallel()

	src := rng.New(23)

	for i := 0; i < 200; i++ {
		days := Distribute(src, 2000, 10000, 30, 0)

		wins := 0
		for _, d := range days {
			if d.Winning {
				wins++
			}
		}

		// Target ratio is drawn from [0.65, 0.75); allow one day of rounding
		// slack on either side. The residual fold can flip the last day, so
		// allow one more.
		ratio := float64(wins) / 30
		assert.GreaterOrEqual(t, ratio, WinRateMin-2.0/30)
		assert.LessOrEqual(t, ratio, WinRateMax+2.0/30)
	}
}

func TestDistributeExplicitWinRate(t *testing.T) {
	t.Parallel()

	src := rng.New(5)
	days := Distribute(src, 1000, 10000, 20, 0.70)

	wins := 0
	for _, d := range days {
		if d.Winning {
			wins++
		}
	}
	// round(20*0.70) = 14, +-1 for the residual fold on the last day.
	assert.InDelta(t, 14, wins, 1)
}

func TestDistributeZeroDays(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Distribute(rng.New(1), 100, 1000, 0, 0))
}

func TestDistributeNegativeTotalSymmetric(t *testing.T) {
	t.Parallel()

	src := rng.New(77)
	days := Distribute(src, -900, 10000, 30, 0)

	assert.InDelta(t, -900, sum(days), 0.01)

	// Scaling flips the signs, so losing days now dominate.
	losses := 0
	for _, d := range days {
		if !d.Winning {
			losses++
		}
	}
	assert.Greater(t, losses, 30/2)
}

func TestDistributeVarianceClasses(t *testing.T) {
	t.Parallel()

	src := rng.New(31)
	days := Distribute(src, 2100, 10000, 31, 0)

	for _, d := range days {
		assert.Contains(t, []Class{ClassMinimal, ClassLow, ClassMedium, ClassHigh}, d.Class)
	}
}

func TestDistributeAmountsRoundedToCents(t *testing.T) {
	t.Parallel()

	src := rng.New(13)
	days := Distribute(src, 1777.77, 12345.67, 30, 0)

	for _, d := range days {
		cents := d.Amount * 100
		assert.InDelta(t, math.Round(cents), cents, 1e-6)
	}
}
