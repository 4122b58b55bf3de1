// Package store persists plans. A plan is written as one document per
// account with atomic whole-plan replacement; there are no partial-period
// updates.
package store

import (
	"context"
	"errors"

	"github.com/quantfarm/yieldsim/plan"
)

var ErrNotFound = errors.New("plan not found")

type Store interface {
	// SavePlan atomically replaces the stored plan for its account.
	SavePlan(ctx context.Context, pl *plan.Plan) error
	// GetPlan returns the plan for accountID, or ErrNotFound.
	GetPlan(ctx context.Context, accountID string) (*plan.Plan, error)
	// AccountIDs lists every account with a stored plan.
	AccountIDs(ctx context.Context) ([]string, error)
	Close() error
}
