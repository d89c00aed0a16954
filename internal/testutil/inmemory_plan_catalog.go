package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/adminconsole/internal/domain/plan"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/samber/lo"
)

// InMemoryPlanCatalog implements plan.Catalog
type InMemoryPlanCatalog struct {
	mu    sync.RWMutex
	plans []*plan.Plan
	err   error
	calls int
}

var _ plan.Catalog = (*InMemoryPlanCatalog)(nil)

func NewInMemoryPlanCatalog(plans ...*plan.Plan) *InMemoryPlanCatalog {
	return &InMemoryPlanCatalog{plans: plans}
}

func (c *InMemoryPlanCatalog) ListPlans(ctx context.Context, filter *types.PlanFilter) ([]*plan.Plan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	if c.err != nil {
		return nil, c.err
	}

	return lo.Filter(c.plans, func(p *plan.Plan, _ int) bool {
		if filter == nil {
			return true
		}
		if filter.PublicOnly && !p.IsPublic {
			return false
		}
		if len(filter.PlanIDs) > 0 && !lo.Contains(filter.PlanIDs, p.ID) {
			return false
		}
		return true
	}), nil
}

// SetPlans replaces the listed plans
func (c *InMemoryPlanCatalog) SetPlans(plans ...*plan.Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans = plans
}

// FailWith makes every following listing fail with err; nil restores it
func (c *InMemoryPlanCatalog) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *InMemoryPlanCatalog) Calls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls
}
