// Package plan holds the simulated return plan for an account: twelve
// compounding periods, each decomposed into daily targets, plus the record of
// capital injections applied to it.
package plan

import (
	"math"
	"time"

	"github.com/quantfarm/yieldsim/synth"
	"github.com/quantfarm/yieldsim/volatility"
)

// PeriodState is the lifecycle state of a period. Exactly one period of a
// plan is active at a time; everything before it is completed, everything
// after it is scheduled.
type PeriodState string

const (
	PeriodScheduled PeriodState = "scheduled"
	PeriodActive    PeriodState = "active"
	PeriodCompleted PeriodState = "completed"
)

// DayState is the consumption state of a daily target.
type DayState string

const (
	DayPending DayState = "pending"
	DayPaid    DayState = "paid"
)

// Account is the simulated account owned by the plan.
type Account struct {
	ID          string    `json:"id"`
	Principal   float64   `json:"principal"`
	ActivatedAt time.Time `json:"activated_at"`

	// Balance is principal plus injections; Interest is the running total
	// credited by the payout processor.
	Balance  float64 `json:"balance"`
	Interest float64 `json:"interest"`
}

// DailyTarget is one day's slice of a period's return. It is mutated at most
// once, pending to paid, by the payout processor. Trades are generated lazily
// and replaced wholesale when the day is rebuilt.
type DailyTarget struct {
	Date    time.Time        `json:"date"`
	Amount  float64          `json:"amount"`
	Winning bool             `json:"winning"`
	Class   volatility.Class `json:"variance_class"`
	State   DayState         `json:"state"`
	Trades  []synth.Trade    `json:"trades,omitempty"`
}

// Period is one of the twelve compounding intervals of a plan. Its rate never
// changes after generation; an injection while it is active only grows the
// balance the rate applies to.
type Period struct {
	Ordinal   int       `json:"ordinal"` // 1-based
	Rate      float64   `json:"rate"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"` // exclusive
	Days      int       `json:"days"`

	StartingBalance float64 `json:"starting_balance"`
	TargetAmount    float64 `json:"target_amount"`
	EndingBalance   float64 `json:"ending_balance"`
	// Injected is capital added while this period was active.
	Injected float64 `json:"injected,omitempty"`

	State         PeriodState `json:"state"`
	RemainingDays int         `json:"remaining_days"`
	// LastPaidDate is the payout idempotence marker: zero until the first
	// payout, then the most recent paid date.
	LastPaidDate time.Time `json:"last_paid_date,omitempty"`

	Targets []DailyTarget `json:"targets"`
}

// Contains reports whether date falls inside the period.
func (p *Period) Contains(date time.Time) bool {
	return !date.Before(p.StartDate) && date.Before(p.EndDate)
}

// TargetFor returns the daily target matching date, or nil.
func (p *Period) TargetFor(date time.Time) *DailyTarget {
	for i := range p.Targets {
		if p.Targets[i].Date.Equal(date) {
			return &p.Targets[i]
		}
	}
	return nil
}

// PaidAmount sums the already-paid daily targets.
func (p *Period) PaidAmount() float64 {
	var s float64
	for i := range p.Targets {
		if p.Targets[i].State == DayPaid {
			s += p.Targets[i].Amount
		}
	}
	return s
}

// Injection records one capital addition. Append-only.
type Injection struct {
	ID            string    `json:"id"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
	PeriodOrdinal int       `json:"period_ordinal"`
}

// Plan is the full simulated ledger for one account.
type Plan struct {
	AccountID  string      `json:"account_id"`
	Account    Account     `json:"account"`
	Periods    []Period    `json:"periods"`
	Injections []Injection `json:"injections,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ActivePeriod returns the currently active period, or nil when the plan has
// run to completion.
func (pl *Plan) ActivePeriod() *Period {
	for i := range pl.Periods {
		if pl.Periods[i].State == PeriodActive {
			return &pl.Periods[i]
		}
	}
	return nil
}

// PeriodFor returns the period containing date, or nil.
func (pl *Plan) PeriodFor(date time.Time) *Period {
	for i := range pl.Periods {
		if pl.Periods[i].Contains(date) {
			return &pl.Periods[i]
		}
	}
	return nil
}

// Midnight truncates t to its UTC calendar date. All plan dates are stored at
// midnight UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
