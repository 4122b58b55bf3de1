// Package rate draws the monthly return rate for a plan period.
package rate

import "github.com/quantfarm/yieldsim/pkg/rng"

// Tier bounds for the monthly return rate. The first period of a plan pays a
// higher rate than every subsequent period.
const (
	FirstPeriodMin = 0.20
	FirstPeriodMax = 0.22
	LaterPeriodMin = 0.15
	LaterPeriodMax = 0.17
)

// Generator draws period rates from the tiered ranges.
type Generator struct {
	src rng.Source
}

func NewGenerator(src rng.Source) *Generator {
	return &Generator{src: src}
}

// Draw returns the rate for the period with the given 1-based ordinal:
// uniform in [FirstPeriodMin, FirstPeriodMax) for the first period, uniform in
// [LaterPeriodMin, LaterPeriodMax) for all later ones.
func (g *Generator) Draw(ordinal int) float64 {
	if ordinal <= 1 {
		return g.src.Between(FirstPeriodMin, FirstPeriodMax)
	}
	return g.src.Between(LaterPeriodMin, LaterPeriodMax)
}
