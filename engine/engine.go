// Package engine wires the generators, payout processor, store and ledger
// into the entry points the outside collaborators call: account activation,
// capital injection, daily payout and the read-only query surface.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantfarm/yieldsim/ledger"
	"github.com/quantfarm/yieldsim/metrics"
	"github.com/quantfarm/yieldsim/payout"
	"github.com/quantfarm/yieldsim/pkg/rng"
	"github.com/quantfarm/yieldsim/plan"
	"github.com/quantfarm/yieldsim/risk"
	"github.com/quantfarm/yieldsim/store"
	"github.com/quantfarm/yieldsim/synth"
)

// Options configures an Engine. Store is required; everything else has a
// default.
type Options struct {
	Store   store.Store
	Ledger  ledger.Ledger
	Rand    rng.Source
	Logger  *logrus.Logger
	Metrics *metrics.Collector // optional
}

type Engine struct {
	store   store.Store
	ledger  ledger.Ledger
	log     *logrus.Logger
	metrics *metrics.Collector

	builder    *plan.Builder
	reconciler *plan.Reconciler
	synth      *synth.Synthesizer
	sizer      *risk.Sizer
	payouts    *payout.Processor

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("engine: store is required")
	}
	if opts.Ledger == nil {
		opts.Ledger = ledger.Noop{}
	}
	if opts.Rand == nil {
		opts.Rand = rng.NewCrypto()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &Engine{
		store:      opts.Store,
		ledger:     opts.Ledger,
		log:        opts.Logger,
		metrics:    opts.Metrics,
		builder:    plan.NewBuilder(opts.Rand),
		reconciler: plan.NewReconciler(opts.Rand),
		synth:      synth.New(opts.Rand),
		sizer:      risk.NewSizer(opts.Rand),
		payouts:    payout.NewProcessor(opts.Logger),
		locks:      make(map[string]*sync.Mutex),
	}, nil
}

// accountLock returns the per-account mutex. Mutating operations (injection
// in particular, a read-modify-write of the whole forward plan) must not
// interleave for the same account.
func (e *Engine) accountLock(accountID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[accountID] = l
	}
	return l
}

// Activate builds and persists the twelve-period plan for an account. The
// create is idempotent: if a plan already exists it is returned unchanged and
// created is false.
func (e *Engine) Activate(ctx context.Context, accountID string, principal float64, date time.Time) (pl *plan.Plan, created bool, err error) {
	l := e.accountLock(accountID)
	l.Lock()
	defer l.Unlock()

	existing, err := e.store.GetPlan(ctx, accountID)
	if err == nil {
		return existing, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	pl, err = e.builder.Build(accountID, principal, date)
	if err != nil {
		return nil, false, err
	}
	if err := e.store.SavePlan(ctx, pl); err != nil {
		return nil, false, err
	}

	if e.metrics != nil {
		e.metrics.RecordActivation()
		e.metrics.SetAccountBalance(accountID, pl.Account.Balance)
	}
	e.log.WithFields(logrus.Fields{
		"account":   accountID,
		"principal": principal,
		"rate":      pl.Periods[0].Rate,
	}).Info("plan activated")

	return pl, true, nil
}

// Inject applies a mid-period capital injection and persists the reconciled
// plan atomically.
func (e *Engine) Inject(ctx context.Context, accountID string, amount float64, date time.Time) (*plan.Plan, error) {
	l := e.accountLock(accountID)
	l.Lock()
	defer l.Unlock()

	pl, err := e.store.GetPlan(ctx, accountID)
	if err != nil {
		return nil, err
	}

	inj, err := e.reconciler.Inject(pl, amount, date)
	if err != nil {
		return nil, err
	}
	if err := e.store.SavePlan(ctx, pl); err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.RecordReconciliation()
		e.metrics.SetAccountBalance(accountID, pl.Account.Balance)
	}
	e.log.WithFields(logrus.Fields{
		"account": accountID,
		"amount":  amount,
		"period":  inj.PeriodOrdinal,
	}).Info("capital injection reconciled")

	return pl, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
