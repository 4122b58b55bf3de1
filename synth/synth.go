// Package synth decomposes one signed daily amount into a set of individual
// trade records whose profit/loss sums back to the daily amount exactly.
package synth

import (
	"math"
	"sort"
	"time"

	"github.com/quantfarm/yieldsim/pkg/id"
	"github.com/quantfarm/yieldsim/pkg/rng"
)

// ZeroEpsilon is the absolute daily amount below which a day is treated as
// flat: it still gets a balanced set of offsetting trades so the day shows
// activity, rather than an empty list.
const ZeroEpsilon = 0.01

// Win-rate ranges for the fraction of winning trades, by day classification.
const (
	winDayRateMin  = 0.60
	winDayRateMax  = 0.75
	lossDayRateMin = 0.30
	lossDayRateMax = 0.40
)

// Trade count range used when the caller gives no hint.
const (
	MinTrades = 24
	MaxTrades = 60
)

// Raw per-trade profit/loss ranges as fractions of account capital.
const (
	winTradePctMin  = 0.0004
	winTradePctMax  = 0.0030
	lossTradePctMin = -0.0025
	lossTradePctMax = -0.0003
)

// Trade durations run 10 minutes to 4 hours, loosely proportional to the
// trade's magnitude.
const (
	MinDuration = 10 * time.Minute
	MaxDuration = 4 * time.Hour
)

// Trading window, hours into the day (UTC).
const (
	windowOpenHour  = 8
	windowCloseHour = 20
)

// Window returns the trading window for a calendar date.
func Window(date time.Time) (time.Time, time.Time) {
	y, m, d := date.UTC().Date()
	open := time.Date(y, m, d, windowOpenHour, 0, 0, 0, time.UTC)
	close := time.Date(y, m, d, windowCloseHour, 0, 0, 0, time.UTC)
	return open, close
}

// Synthesizer generates the trade detail for daily targets.
type Synthesizer struct {
	src rng.Source
}

func New(src rng.Source) *Synthesizer {
	return &Synthesizer{src: src}
}

// Day generates the trade set for one daily amount against the given account
// capital. hint overrides the trade count when positive. The returned trades
// are ordered by timestamp and their profit/loss sums to amount exactly.
func (s *Synthesizer) Day(date time.Time, amount, capital float64, hint int) []Trade {
	n := hint
	if n <= 0 {
		n = MinTrades + s.src.IntN(MaxTrades-MinTrades+1)
	}

	var pls []float64
	if math.Abs(amount) <= ZeroEpsilon {
		pls = s.balancedAmounts(amount, capital, n)
	} else {
		pls = s.scaledAmounts(amount, capital, n)
	}

	return s.materialize(date, pls)
}

// scaledAmounts mirrors the daily distributor at trade grain: draw raw signed
// amounts with a win-rate matching the day's classification, shuffle, scale to
// the exact daily amount and put the rounding residual on the final trade.
func (s *Synthesizer) scaledAmounts(amount, capital float64, n int) []float64 {
	var winRate float64
	if amount > 0 {
		winRate = s.src.Between(winDayRateMin, winDayRateMax)
	} else {
		winRate = s.src.Between(lossDayRateMin, lossDayRateMax)
	}

	wins := int(math.Round(float64(n) * winRate))
	if wins > n {
		wins = n
	}

	if capital <= 0 {
		capital = math.Abs(amount) * 100
	}

	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		if i < wins {
			raw[i] = capital * s.src.Between(winTradePctMin, winTradePctMax)
		} else {
			raw[i] = capital * s.src.Between(lossTradePctMin, lossTradePctMax)
		}
	}
	s.src.Shuffle(n, func(i, j int) { raw[i], raw[j] = raw[j], raw[i] })

	var rawSum float64
	for _, v := range raw {
		rawSum += v
	}
	if math.Abs(rawSum) < 1e-9 {
		per := round2(amount / float64(n))
		for i := range raw {
			raw[i] = per
		}
	} else {
		factor := amount / rawSum
		for i := range raw {
			raw[i] = round2(raw[i] * factor)
		}
	}

	var achieved float64
	for _, v := range raw {
		achieved += v
	}
	raw[n-1] = round2(raw[n-1] + amount - achieved)

	return raw
}

// balancedAmounts handles the flat-day edge case: offsetting win/loss pairs
// summing to the (near-)zero daily amount, so an active trading day never
// shows an empty blotter.
func (s *Synthesizer) balancedAmounts(amount, capital float64, n int) []float64 {
	if n < 4 {
		n = 4
	}
	if n%2 != 0 {
		n++
	}
	if capital <= 0 {
		capital = 10000
	}

	out := make([]float64, 0, n)
	for i := 0; i < n/2; i++ {
		v := round2(capital * s.src.Between(0.0005, 0.0020))
		out = append(out, v, -v)
	}
	s.src.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	var achieved float64
	for _, v := range out {
		achieved += v
	}
	out[len(out)-1] = round2(out[len(out)-1] + amount - achieved)

	return out
}

// materialize turns the signed amounts into full trade records: instrument,
// direction, clustered timestamp and magnitude-biased duration, sorted by
// time.
func (s *Synthesizer) materialize(date time.Time, pls []float64) []Trade {
	open, close := Window(date)
	span := close.Sub(open)

	// Trades cluster around a handful of session bursts instead of spreading
	// uniformly across the window.
	centers := make([]time.Duration, 3+s.src.IntN(3))
	for i := range centers {
		centers[i] = time.Duration(s.src.Float64() * float64(span))
	}

	var maxAbs float64
	for _, v := range pls {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}

	trades := make([]Trade, len(pls))
	for i, pl := range pls {
		center := centers[s.src.IntN(len(centers))]
		jitter := time.Duration(s.src.Between(-45, 45) * float64(time.Minute))
		offset := center + jitter
		if offset < 0 {
			offset = 0
		}
		if offset > span {
			offset = span
		}

		norm := 0.0
		if maxAbs > 0 {
			norm = math.Abs(pl) / maxAbs
		}
		frac := 0.6*norm + 0.4*s.src.Float64()
		dur := MinDuration + time.Duration(frac*float64(MaxDuration-MinDuration))

		trades[i] = Trade{
			ID:         id.New(),
			Instrument: pickInstrument(s.src),
			Direction:  pickDirection(s.src),
			Time:       open.Add(offset),
			Duration:   dur,
			ProfitLoss: pl,
		}
	}

	sort.Slice(trades, func(i, j int) bool { return trades[i].Time.Before(trades[j].Time) })
	return trades
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
