package plan

import (
	"context"

	"github.com/flexprice/adminconsole/internal/types"
)

// Catalog is the read side of the plan catalog API.
// The wizard lists it once when a session opens.
type Catalog interface {
	ListPlans(ctx context.Context, filter *types.PlanFilter) ([]*Plan, error)
}
