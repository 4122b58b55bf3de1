package synth

import (
	"time"

	"github.com/quantfarm/yieldsim/pkg/rng"
)

// Trade is one synthetic transaction contributing to a daily target. Trades
// are immutable once generated; regenerating a day replaces the full set.
type Trade struct {
	ID         string        `json:"id"`
	Instrument string        `json:"instrument"`
	Direction  Direction     `json:"direction"`
	Time       time.Time     `json:"time"`
	Duration   time.Duration `json:"duration"`
	ProfitLoss float64       `json:"profit_loss"`

	// Set by the capital lock sizer.
	PositionSize float64   `json:"position_size,omitempty"`
	LockStart    time.Time `json:"lock_start,omitempty"`
	LockEnd      time.Time `json:"lock_end,omitempty"`
}

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Sum returns the total profit/loss of a trade set.
func Sum(trades []Trade) float64 {
	var s float64
	for _, t := range trades {
		s += t.ProfitLoss
	}
	return s
}

// instrumentChoice is a weighted entry of the fixed instrument set.
type instrumentChoice struct {
	name   string
	weight int
}

var instruments = []instrumentChoice{
	{"EUR_USD", 30},
	{"GBP_USD", 20},
	{"USD_JPY", 18},
	{"AUD_USD", 12},
	{"USD_CHF", 8},
	{"USD_CAD", 7},
	{"NZD_USD", 5},
}

var instrumentWeightTotal = func() int {
	total := 0
	for _, c := range instruments {
		total += c.weight
	}
	return total
}()

func pickInstrument(src rng.Source) string {
	n := src.IntN(instrumentWeightTotal)
	for _, c := range instruments {
		n -= c.weight
		if n < 0 {
			return c.name
		}
	}
	return instruments[0].name
}

func pickDirection(src rng.Source) Direction {
	if src.Float64() < 0.55 {
		return Long
	}
	return Short
}
