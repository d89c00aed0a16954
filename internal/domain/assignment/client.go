package assignment

import (
	"context"
)

// Client is the plan-assignment API. Implementations must not retry:
// a submission is attempted once and the outcome surfaced to the admin.
type Client interface {
	AssignPlan(ctx context.Context, tenantID string, req *AssignPlanRequest, receipt *Receipt) (*Result, error)
	ExtendPlan(ctx context.Context, tenantID string, req *ExtendPlanRequest, receipt *Receipt) (*Result, error)
}
