// Package risk assigns notional position sizes and capital lock windows to a
// day's trades so the account models a target fraction of capital tied up in
// open positions at any instant.
package risk

import (
	"math"
	"time"

	"github.com/quantfarm/yieldsim/pkg/rng"
	"github.com/quantfarm/yieldsim/synth"
)

// TargetUtilization is the fraction of account capital modeled as locked in
// open positions across the trading day.
const TargetUtilization = 0.80

// Per-trade position size range as a fraction of capital. Raw sizes are drawn
// from this range and scaled so the set sums to TargetUtilization x capital;
// the last trade absorbs the rounding remainder.
const (
	positionPctMin = 0.008
	positionPctMax = 0.015
)

// Lock window length per position.
const (
	LockMin = 20 * time.Minute
	LockMax = 60 * time.Minute
)

// Sizer distributes the utilization target across a day's trades.
type Sizer struct {
	src         rng.Source
	utilization float64
}

func NewSizer(src rng.Source) *Sizer {
	return &Sizer{src: src, utilization: TargetUtilization}
}

// Apply annotates trades in place with position sizes summing exactly to
// utilization x capital and staggered lock windows spread across the trading
// window, so positions roll off and are replaced through the day. The
// summation is the hard invariant here; lock windows are best-effort
// scheduling, not a temporal non-overlap guarantee.
func (s *Sizer) Apply(trades []synth.Trade, capital float64, dayOpen, dayClose time.Time) {
	n := len(trades)
	if n == 0 || capital <= 0 {
		return
	}

	target := round2(s.utilization * capital)

	raw := make([]float64, n)
	var rawSum float64
	for i := range raw {
		raw[i] = capital * s.src.Between(positionPctMin, positionPctMax)
		rawSum += raw[i]
	}

	factor := target / rawSum
	var achieved float64
	for i := range trades {
		size := round2(raw[i] * factor)
		trades[i].PositionSize = size
		achieved += size
	}
	// Last trade absorbs the remainder so sizes reconcile exactly.
	last := &trades[n-1]
	last.PositionSize = round2(last.PositionSize + target - achieved)

	// Stagger lock starts across the window so roughly the target fraction of
	// capital stays locked, with immediate replacement as positions roll off.
	span := dayClose.Sub(dayOpen)
	stride := span / time.Duration(n)
	for i := range trades {
		jitter := time.Duration(s.src.Float64() * float64(stride))
		start := dayOpen.Add(time.Duration(i)*stride + jitter)
		if start.After(dayClose) {
			start = dayClose
		}
		length := LockMin + time.Duration(s.src.Float64()*float64(LockMax-LockMin))
		trades[i].LockStart = start
		trades[i].LockEnd = start.Add(length)
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
