package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/quantfarm/yieldsim/payout"
	"github.com/quantfarm/yieldsim/plan"
	"github.com/quantfarm/yieldsim/synth"
)

// Progress summarizes the active period of an account.
type Progress struct {
	AccountID string  `json:"account_id"`
	Balance   float64 `json:"balance"`
	Interest  float64 `json:"interest"`

	PeriodOrdinal int       `json:"period_ordinal"`
	Rate          float64   `json:"rate"`
	Target        float64   `json:"target"`
	PaidSoFar     float64   `json:"paid_so_far"`
	Remaining     float64   `json:"remaining"`
	RemainingDays int       `json:"remaining_days"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
}

// DayStatus reports one daily target and its consumption state.
type DayStatus struct {
	Date    time.Time      `json:"date"`
	Amount  float64        `json:"amount"`
	Winning bool           `json:"winning"`
	State   plan.DayState  `json:"state"`
	Source  payout.Source  `json:"source"`
}

// Progress returns the active period's progress for an account.
func (e *Engine) Progress(ctx context.Context, accountID string) (Progress, error) {
	pl, err := e.store.GetPlan(ctx, accountID)
	if err != nil {
		return Progress{}, err
	}

	per := pl.ActivePeriod()
	if per == nil {
		return Progress{}, fmt.Errorf("progress %s: %w", accountID, payout.ErrNoActivePeriod)
	}

	paid := per.PaidAmount()
	return Progress{
		AccountID:     accountID,
		Balance:       pl.Account.Balance,
		Interest:      pl.Account.Interest,
		PeriodOrdinal: per.Ordinal,
		Rate:          per.Rate,
		Target:        per.TargetAmount,
		PaidSoFar:     paid,
		Remaining:     per.TargetAmount - paid,
		RemainingDays: per.RemainingDays,
		StartDate:     per.StartDate,
		EndDate:       per.EndDate,
	}, nil
}

// Day returns the daily target for (account, date).
func (e *Engine) Day(ctx context.Context, accountID string, date time.Time) (DayStatus, error) {
	pl, err := e.store.GetPlan(ctx, accountID)
	if err != nil {
		return DayStatus{}, err
	}

	date = plan.Midnight(date)
	per := pl.PeriodFor(date)
	if per == nil {
		return DayStatus{}, fmt.Errorf("day %s: %w", date.Format("2006-01-02"), payout.ErrNoDailyTarget)
	}
	target := per.TargetFor(date)
	if target == nil {
		return DayStatus{}, fmt.Errorf("day %s: %w", date.Format("2006-01-02"), payout.ErrNoDailyTarget)
	}

	source := payout.SourceSchedule
	if len(target.Trades) > 0 {
		source = payout.SourceTrades
	}
	return DayStatus{
		Date:    target.Date,
		Amount:  target.Amount,
		Winning: target.Winning,
		State:   target.State,
		Source:  source,
	}, nil
}

// DayTrades returns the full trade list for (account, date), materializing
// and persisting it on first request.
func (e *Engine) DayTrades(ctx context.Context, accountID string, date time.Time) ([]synth.Trade, error) {
	l := e.accountLock(accountID)
	l.Lock()
	defer l.Unlock()

	pl, err := e.store.GetPlan(ctx, accountID)
	if err != nil {
		return nil, err
	}

	date = plan.Midnight(date)
	target := e.materializeDay(pl, date)
	if target == nil {
		return nil, fmt.Errorf("trades %s: %w", date.Format("2006-01-02"), payout.ErrNoDailyTarget)
	}

	if err := e.store.SavePlan(ctx, pl); err != nil {
		return nil, err
	}
	return target.Trades, nil
}
