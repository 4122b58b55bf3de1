package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/quantfarm/yieldsim/plan"
)

// Memory keeps plans in process. Plans are stored and returned as deep copies
// so callers never alias the stored state; the copy-on-write gives the same
// whole-plan replacement semantics as the durable stores.
type Memory struct {
	mu    sync.RWMutex
	plans map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{plans: make(map[string][]byte)}
}

func (s *Memory) SavePlan(_ context.Context, pl *plan.Plan) error {
	data, err := json.Marshal(pl)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[pl.AccountID] = data
	return nil
}

func (s *Memory) GetPlan(_ context.Context, accountID string) (*plan.Plan, error) {
	s.mu.RLock()
	data, ok := s.plans[accountID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}

	pl := &plan.Plan{}
	if err := json.Unmarshal(data, pl); err != nil {
		return nil, fmt.Errorf("unmarshal plan %s: %w", accountID, err)
	}
	return pl, nil
}

func (s *Memory) AccountIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.plans))
	for id := range s.plans {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Memory) Close() error { return nil }
