package plan

import (
	"fmt"
	"time"

	"github.com/quantfarm/yieldsim/pkg/rng"
	"github.com/quantfarm/yieldsim/rate"
	"github.com/quantfarm/yieldsim/volatility"
)

// PeriodsPerPlan is the fixed number of compounding periods in a plan.
const PeriodsPerPlan = 12

// Builder produces the full twelve-period plan at account activation.
// Repeated activation for the same account is handled by the engine, which
// returns the persisted plan instead of building a second one.
type Builder struct {
	rates *rate.Generator
	src   rng.Source
}

func NewBuilder(src rng.Source) *Builder {
	return &Builder{rates: rate.NewGenerator(src), src: src}
}

// Build generates the plan for an account: one period per calendar month from
// the activation date, each with a tier-drawn rate, a target compounded on
// the previous period's ending balance, and a full daily decomposition.
func (b *Builder) Build(accountID string, principal float64, activation time.Time) (*Plan, error) {
	if accountID == "" {
		return nil, fmt.Errorf("build plan: account id is required")
	}
	if principal <= 0 {
		return nil, fmt.Errorf("build plan: principal must be positive, got %.2f", principal)
	}

	activation = Midnight(activation)
	pl := &Plan{
		AccountID: accountID,
		Account: Account{
			ID:          accountID,
			Principal:   principal,
			ActivatedAt: activation,
			Balance:     principal,
		},
		Periods:   make([]Period, 0, PeriodsPerPlan),
		CreatedAt: time.Now().UTC(),
	}

	balance := principal
	start := activation
	for ord := 1; ord <= PeriodsPerPlan; ord++ {
		end := start.AddDate(0, 1, 0)
		days := daysBetween(start, end)

		r := b.rates.Draw(ord)
		target := round2(balance * r)

		p := Period{
			Ordinal:         ord,
			Rate:            r,
			StartDate:       start,
			EndDate:         end,
			Days:            days,
			StartingBalance: balance,
			TargetAmount:    target,
			EndingBalance:   round2(balance + target),
			State:           PeriodScheduled,
			RemainingDays:   days,
			Targets:         buildTargets(b.src, start, days, target, balance),
		}
		if ord == 1 {
			p.State = PeriodActive
		}
		pl.Periods = append(pl.Periods, p)

		balance = round2(balance + target)
		start = end
	}

	return pl, nil
}

func buildTargets(src rng.Source, start time.Time, days int, target, balance float64) []DailyTarget {
	dist := volatility.Distribute(src, target, balance, days, 0)
	out := make([]DailyTarget, len(dist))
	for i, d := range dist {
		out[i] = DailyTarget{
			Date:    start.AddDate(0, 0, i),
			Amount:  d.Amount,
			Winning: d.Winning,
			Class:   d.Class,
			State:   DayPending,
		}
	}
	return out
}
