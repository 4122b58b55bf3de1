// Package payout advances a plan one day at a time, crediting the account and
// marking each daily target consumed exactly once.
package payout

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantfarm/yieldsim/plan"
	"github.com/quantfarm/yieldsim/synth"
)

// Status distinguishes a fresh credit from the idempotent no-op when the same
// (account, date) is processed twice.
type Status string

const (
	StatusPaid        Status = "paid"
	StatusAlreadyPaid Status = "already_paid"
)

// Source classifies where the credited amount came from.
type Source string

const (
	SourceSchedule Source = "schedule"
	SourceTrades   Source = "trades"
)

// Tolerance is the soft reconciliation bound: aggregates drifting beyond it
// are logged for monitoring but do not fail the payout.
const Tolerance = 0.01

var (
	ErrNoActivePeriod = errors.New("no active period")
	ErrNoDailyTarget  = errors.New("no daily target for date")
)

// Result reports the outcome of one payout invocation.
type Result struct {
	Status          Status
	Date            time.Time
	Amount          float64
	Source          Source
	PeriodOrdinal   int
	PeriodCompleted bool
}

// Processor applies daily payouts. Idempotence is guarded by the active
// period's last-paid-date marker, not by scanning payment history, so a
// concurrent second invocation for the same date resolves to a no-op.
type Processor struct {
	log *logrus.Logger
}

func NewProcessor(log *logrus.Logger) *Processor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Processor{log: log}
}

// Process credits the daily target matching date in the plan's active period.
// When the day's trade detail has been materialized the credit derives from
// the trade sum, otherwise from the schedule amount. Paying the final day of
// a period completes it and activates the next.
func (p *Processor) Process(pl *plan.Plan, date time.Time) (Result, error) {
	date = plan.Midnight(date)

	per := pl.ActivePeriod()
	if per == nil {
		return Result{}, fmt.Errorf("payout %s: %w", date.Format("2006-01-02"), ErrNoActivePeriod)
	}

	// Idempotence marker check: anything at or before the last paid date has
	// already been consumed.
	if !per.LastPaidDate.IsZero() && !per.LastPaidDate.Before(date) {
		return Result{
			Status:        StatusAlreadyPaid,
			Date:          date,
			PeriodOrdinal: per.Ordinal,
		}, nil
	}

	target := per.TargetFor(date)
	if target == nil {
		return Result{}, fmt.Errorf("payout %s: %w", date.Format("2006-01-02"), ErrNoDailyTarget)
	}

	amount := target.Amount
	source := SourceSchedule
	if len(target.Trades) > 0 {
		tradeSum := synth.Sum(target.Trades)
		if math.Abs(tradeSum-target.Amount) > Tolerance {
			p.log.WithFields(logrus.Fields{
				"account":  pl.AccountID,
				"date":     date.Format("2006-01-02"),
				"schedule": target.Amount,
				"trades":   tradeSum,
			}).Warn("trade detail does not reconcile with daily target")
		}
		amount = tradeSum
		source = SourceTrades
	}

	target.State = plan.DayPaid
	per.LastPaidDate = date
	if per.RemainingDays > 0 {
		per.RemainingDays--
	}
	pl.Account.Interest = round2(pl.Account.Interest + amount)

	res := Result{
		Status:        StatusPaid,
		Date:          date,
		Amount:        amount,
		Source:        source,
		PeriodOrdinal: per.Ordinal,
	}

	if allPaid(per) {
		p.completePeriod(pl, per)
		res.PeriodCompleted = true
	}

	return res, nil
}

func allPaid(per *plan.Period) bool {
	for i := range per.Targets {
		if per.Targets[i].State != plan.DayPaid {
			return false
		}
	}
	return true
}

func (p *Processor) completePeriod(pl *plan.Plan, per *plan.Period) {
	per.State = plan.PeriodCompleted

	if drift := math.Abs(per.PaidAmount() - per.TargetAmount); drift > Tolerance {
		p.log.WithFields(logrus.Fields{
			"account": pl.AccountID,
			"period":  per.Ordinal,
			"drift":   drift,
		}).Warn("period paid total drifted from target")
	}

	for i := range pl.Periods {
		if pl.Periods[i].Ordinal == per.Ordinal+1 {
			pl.Periods[i].State = plan.PeriodActive
			break
		}
	}

	p.log.WithFields(logrus.Fields{
		"account": pl.AccountID,
		"period":  per.Ordinal,
	}).Info("period completed")
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
