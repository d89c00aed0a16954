package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/adminconsole/internal/domain/assignment"
	"github.com/flexprice/adminconsole/internal/types"
)

// AssignmentCall records one request received by InMemoryAssignmentClient
type AssignmentCall struct {
	Mode     types.WizardMode
	TenantID string
	Request  *assignment.PlanRequest
	Receipt  *assignment.Receipt
}

// InMemoryAssignmentClient implements assignment.Client. Every call is
// recorded and answered with the configured result or error.
type InMemoryAssignmentClient struct {
	mu     sync.Mutex
	calls  []AssignmentCall
	result *assignment.Result
	err    error
	// hook runs before answering, outside the lock; tests use it to hold a
	// call in flight
	hook func(ctx context.Context)
}

var _ assignment.Client = (*InMemoryAssignmentClient)(nil)

func NewInMemoryAssignmentClient() *InMemoryAssignmentClient {
	return &InMemoryAssignmentClient{
		result: &assignment.Result{Success: true},
	}
}

func (c *InMemoryAssignmentClient) AssignPlan(ctx context.Context, tenantID string, req *assignment.AssignPlanRequest, receipt *assignment.Receipt) (*assignment.Result, error) {
	return c.answer(ctx, types.WizardModeAssign, tenantID, req, receipt)
}

func (c *InMemoryAssignmentClient) ExtendPlan(ctx context.Context, tenantID string, req *assignment.ExtendPlanRequest, receipt *assignment.Receipt) (*assignment.Result, error) {
	return c.answer(ctx, types.WizardModeExtend, tenantID, req, receipt)
}

func (c *InMemoryAssignmentClient) answer(ctx context.Context, mode types.WizardMode, tenantID string, req *assignment.PlanRequest, receipt *assignment.Receipt) (*assignment.Result, error) {
	c.mu.Lock()
	c.calls = append(c.calls, AssignmentCall{
		Mode:     mode,
		TenantID: tenantID,
		Request:  req,
		Receipt:  receipt,
	})
	hook := c.hook
	c.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

// RespondWith sets the answer of the following calls
func (c *InMemoryAssignmentClient) RespondWith(result *assignment.Result, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = result
	c.err = err
}

// OnCall installs a hook run while a call is in flight
func (c *InMemoryAssignmentClient) OnCall(hook func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hook = hook
}

// Calls returns a copy of the recorded calls
func (c *InMemoryAssignmentClient) Calls() []AssignmentCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	calls := make([]AssignmentCall, len(c.calls))
	copy(calls, c.calls)
	return calls
}
