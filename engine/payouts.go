package engine

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantfarm/yieldsim/ledger"
	"github.com/quantfarm/yieldsim/payout"
	"github.com/quantfarm/yieldsim/pkg/id"
	"github.com/quantfarm/yieldsim/plan"
	"github.com/quantfarm/yieldsim/synth"
)

// ProcessPayout advances one account by one day: materializes the day's trade
// detail if not yet generated, credits the target via the payout processor,
// emits a ledger credit and persists the plan. Safe to invoke twice for the
// same date; the second call reports StatusAlreadyPaid without crediting.
func (e *Engine) ProcessPayout(ctx context.Context, accountID string, date time.Time) (payout.Result, error) {
	l := e.accountLock(accountID)
	l.Lock()
	defer l.Unlock()

	pl, err := e.store.GetPlan(ctx, accountID)
	if err != nil {
		return payout.Result{}, err
	}

	e.materializeDay(pl, plan.Midnight(date))

	res, err := e.payouts.Process(pl, date)
	if err != nil {
		return payout.Result{}, err
	}

	if res.Status == payout.StatusAlreadyPaid {
		if e.metrics != nil {
			e.metrics.RecordPayoutSkipped()
		}
		return res, nil
	}

	if err := e.store.SavePlan(ctx, pl); err != nil {
		return payout.Result{}, err
	}

	credit := ledger.Credit{
		CreditID:      id.New(),
		AccountID:     accountID,
		Date:          res.Date,
		Amount:        res.Amount,
		Source:        string(res.Source),
		PeriodOrdinal: res.PeriodOrdinal,
		RecordedAt:    time.Now().UTC(),
	}
	if err := e.ledger.RecordCredit(credit); err != nil {
		// The payout itself is committed; a sink failure is surfaced for
		// monitoring rather than rolled back.
		e.log.WithError(err).WithField("account", accountID).Warn("ledger credit not recorded")
	}

	if e.metrics != nil {
		e.metrics.RecordPayout(res.Amount, string(res.Source))
	}
	e.log.WithFields(logrus.Fields{
		"account": accountID,
		"date":    res.Date.Format("2006-01-02"),
		"amount":  res.Amount,
		"source":  res.Source,
	}).Info("payout credited")

	return res, nil
}

// RunDailyPayouts invokes the payout processor for every stored account.
// Accounts whose plan has no target for the date (exhausted or not yet
// started) are skipped. Returns the number of fresh credits.
func (e *Engine) RunDailyPayouts(ctx context.Context, date time.Time) int {
	ids, err := e.store.AccountIDs(ctx)
	if err != nil {
		e.log.WithError(err).Error("list accounts for daily payouts")
		return 0
	}

	credited := 0
	for _, accountID := range ids {
		res, err := e.ProcessPayout(ctx, accountID, date)
		switch {
		case errors.Is(err, payout.ErrNoActivePeriod), errors.Is(err, payout.ErrNoDailyTarget):
			e.log.WithField("account", accountID).Debug("no payable target for date")
		case err != nil:
			e.log.WithError(err).WithField("account", accountID).Error("daily payout failed")
		case res.Status == payout.StatusPaid:
			credited++
		}
	}
	return credited
}

// materializeDay lazily generates the trade detail for the daily target
// matching date, sized against the account's current capital.
func (e *Engine) materializeDay(pl *plan.Plan, date time.Time) *plan.DailyTarget {
	per := pl.PeriodFor(date)
	if per == nil {
		return nil
	}
	target := per.TargetFor(date)
	if target == nil {
		return nil
	}
	if len(target.Trades) > 0 {
		return target
	}

	capital := pl.Account.Balance
	trades := e.synth.Day(date, target.Amount, capital, 0)
	open, close := synth.Window(date)
	e.sizer.Apply(trades, capital, open, close)
	target.Trades = trades
	return target
}
