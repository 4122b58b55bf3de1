package plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/quantfarm/yieldsim/pkg/id"
	"github.com/quantfarm/yieldsim/pkg/rng"
	"github.com/quantfarm/yieldsim/volatility"
)

// ErrNoActivePeriod is returned when an injection date does not fall inside
// the plan's active period.
var ErrNoActivePeriod = errors.New("no active period for date")

// Reconciler reprices a plan after a mid-period capital injection. Paid daily
// targets are never touched; the remaining days of the active period are
// redistributed against the combined remaining target, and every future
// period is regenerated in full from the new compounded balance. Callers must
// serialize invocations per account.
type Reconciler struct {
	src rng.Source
}

func NewReconciler(src rng.Source) *Reconciler {
	return &Reconciler{src: src}
}

// Inject applies a capital injection of amount on date to the plan.
//
// The injected capital earns a prorated share of the active period's rate:
// amount x rate x (days remaining / days in period), added on top of the
// original not-yet-paid target, which continues unchanged against the
// original balance.
func (r *Reconciler) Inject(pl *Plan, amount float64, date time.Time) (Injection, error) {
	if amount <= 0 {
		return Injection{}, fmt.Errorf("inject: amount must be positive, got %.2f", amount)
	}
	date = Midnight(date)

	p := pl.ActivePeriod()
	if p == nil || !p.Contains(date) {
		return Injection{}, fmt.Errorf("inject %s: %w", date.Format("2006-01-02"), ErrNoActivePeriod)
	}

	elapsed := daysBetween(p.StartDate, date)
	remaining := p.Days - elapsed // inclusive of the injection date

	alreadyPaid := round2(p.PaidAmount())
	originalRemaining := round2(p.TargetAmount - alreadyPaid)
	prorated := round2(amount * p.Rate * float64(remaining) / float64(p.Days))

	p.TargetAmount = round2(p.TargetAmount + prorated)
	p.Injected = round2(p.Injected + amount)
	newBalance := round2(p.StartingBalance + p.Injected)
	p.EndingBalance = round2(newBalance + p.TargetAmount)

	redistributePending(r.src, p, round2(originalRemaining+prorated), newBalance)

	// Full regeneration of every future period from the new compounded
	// balance. Rates are immutable; targets, balances and day decompositions
	// are rebuilt.
	balance := round2(newBalance + p.TargetAmount)
	for i := p.Ordinal; i < len(pl.Periods); i++ {
		fp := &pl.Periods[i]
		fp.StartingBalance = balance
		fp.TargetAmount = round2(balance * fp.Rate)
		fp.EndingBalance = round2(balance + fp.TargetAmount)
		fp.Injected = 0
		fp.State = PeriodScheduled
		fp.RemainingDays = fp.Days
		fp.LastPaidDate = time.Time{}
		fp.Targets = buildTargets(r.src, fp.StartDate, fp.Days, fp.TargetAmount, balance)
		balance = round2(balance + fp.TargetAmount)
	}

	inj := Injection{
		ID:            id.New(),
		Amount:        amount,
		Date:          date,
		PeriodOrdinal: p.Ordinal,
	}
	pl.Injections = append(pl.Injections, inj)
	pl.Account.Balance = round2(pl.Account.Balance + amount)

	return inj, nil
}

// redistributePending rebuilds every still-pending daily target of the active
// period so the pending set sums to the new remaining target. Paid targets
// keep their exact pre-injection values, which preserves the period-sum
// invariant: paid + redistributed == new period target.
func redistributePending(src rng.Source, p *Period, remainingTarget, balance float64) {
	var pending []int
	for i := range p.Targets {
		if p.Targets[i].State == DayPending {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return
	}

	dist := volatility.Distribute(src, remainingTarget, balance, len(pending), 0)
	for n, idx := range pending {
		t := &p.Targets[idx]
		t.Amount = dist[n].Amount
		t.Winning = dist[n].Winning
		t.Class = dist[n].Class
		t.State = DayPending
		t.Trades = nil // stale trade detail; regenerated lazily on demand
	}
	p.RemainingDays = len(pending)
}
