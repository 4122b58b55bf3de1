// Package volatility decomposes a period's target amount into signed daily
// amounts that sum back to the target exactly, with a majority of winning days
// and realistic day-to-day variance.
package volatility

import (
	"math"

	"github.com/quantfarm/yieldsim/pkg/rng"
)

// Class buckets a day by the magnitude of its move relative to the balance.
type Class string

const (
	ClassMinimal Class = "minimal"
	ClassLow     Class = "low"
	ClassMedium  Class = "medium"
	ClassHigh    Class = "high"
)

// Win-rate range used when the caller does not supply one.
const (
	WinRateMin = 0.65
	WinRateMax = 0.75
)

// Raw daily percentage ranges, relative to the period's starting balance.
const (
	winPctMin  = 0.001
	winPctMax  = 0.030
	lossPctMin = -0.015
	lossPctMax = -0.001
)

// Class thresholds on the absolute daily percentage of balance.
const (
	classMinimalMax = 0.0035
	classLowMax     = 0.0090
	classMediumMax  = 0.0180
)

// Day is one entry of a distributed schedule.
type Day struct {
	Amount  float64
	Winning bool
	Class   Class
}

// Distribute splits total across days calendar slots against the given
// balance. winRate is the target fraction of winning days; pass a value
// outside (0, 1) to have one drawn from [WinRateMin, WinRateMax).
//
// The amounts are scaled so they reconcile to total exactly: after rounding
// each day to cents, any residual is folded into the last day. A negative
// total is handled by the same path, with the scaling factor flipping the
// signs, so a losing period distributes symmetrically.
//
// days <= 0 returns an empty schedule.
func Distribute(src rng.Source, total, balance float64, days int, winRate float64) []Day {
	if days <= 0 {
		return nil
	}
	if balance <= 0 {
		return evenSplit(total, days)
	}
	if winRate <= 0 || winRate >= 1 {
		winRate = src.Between(WinRateMin, WinRateMax)
	}

	wins := int(math.Round(float64(days) * winRate))
	if wins > days {
		wins = days
	}
	if wins < 0 {
		wins = 0
	}

	raw := make([]float64, days)
	for i := 0; i < days; i++ {
		if i < wins {
			raw[i] = src.Between(winPctMin, winPctMax)
		} else {
			raw[i] = src.Between(lossPctMin, lossPctMax)
		}
	}
	src.Shuffle(days, func(i, j int) { raw[i], raw[j] = raw[j], raw[i] })

	var rawSum float64
	for _, p := range raw {
		rawSum += p
	}
	if math.Abs(rawSum) < 1e-9 {
		// Degenerate draw (raw winners and losers cancel); only reachable for
		// tiny day counts. Fall back to an even split.
		return evenSplit(total, days)
	}

	// Scale every raw percentage so the set sums to the required total
	// percentage of balance.
	factor := (total / balance) / rawSum

	out := make([]Day, days)
	var achieved float64
	for i := 0; i < days; i++ {
		pct := raw[i] * factor
		amt := round2(balance * pct)
		out[i] = Day{Amount: amt, Winning: amt > 0, Class: classify(pct)}
		achieved += amt
	}

	// Fold the rounding residual into the last day so the schedule reconciles
	// exactly.
	residual := round2(total - achieved)
	if residual != 0 {
		last := &out[days-1]
		last.Amount = round2(last.Amount + residual)
		last.Winning = last.Amount > 0
		last.Class = classify(last.Amount / balance)
	}

	return out
}

func evenSplit(total float64, days int) []Day {
	per := round2(total / float64(days))
	out := make([]Day, days)
	var achieved float64
	for i := range out {
		out[i] = Day{Amount: per, Winning: per > 0, Class: ClassMinimal}
		achieved += per
	}
	out[days-1].Amount = round2(per + total - achieved)
	out[days-1].Winning = out[days-1].Amount > 0
	return out
}

func classify(pct float64) Class {
	switch abs := math.Abs(pct); {
	case abs < classMinimalMax:
		return ClassMinimal
	case abs < classLowMax:
		return ClassLow
	case abs < classMediumMax:
		return ClassMedium
	default:
		return ClassHigh
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
