package console

import (
	"context"
	"net/http"
	"net/url"

	"github.com/flexprice/adminconsole/internal/domain/plan"
	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/flexprice/adminconsole/internal/types"
)

// PlanCatalog implements plan.Catalog over GET /plans
type PlanCatalog struct {
	client *Client
}

var _ plan.Catalog = (*PlanCatalog)(nil)

// NewPlanCatalog creates the catalog client
func NewPlanCatalog(client *Client) *PlanCatalog {
	return &PlanCatalog{client: client}
}

// ListPlans fetches the catalog. Reads are idempotent, so transient failures are retried.
func (p *PlanCatalog) ListPlans(ctx context.Context, filter *types.PlanFilter) ([]*plan.Plan, error) {
	if filter == nil {
		filter = types.NewPlanFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{}
	if filter.PublicOnly {
		query.Set("public_only", "true")
	}
	for _, id := range filter.PlanIDs {
		query.Add("plan_ids", id)
	}
	endpoint := "/plans"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	env, err := p.client.makeRequest(ctx, http.MethodGet, endpoint, nil, "")
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("The plan catalog could not be loaded").
			WithReportableDetails(map[string]interface{}{
				"status_code": statusOf(err),
				"message":     env.errorMessage(),
			}).
			Mark(ierr.ErrHTTPClient)
	}
	if !env.Success {
		return nil, ierr.NewError("plan catalog returned an unsuccessful response").
			WithHint("The plan catalog could not be loaded").
			WithReportableDetails(map[string]interface{}{
				"message": env.errorMessage(),
			}).
			Mark(ierr.ErrUpstream)
	}

	var plans listPlansResponse
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &plans); err != nil {
			return nil, ierr.WithError(err).
				WithHint("The plan catalog returned an invalid response").
				Mark(ierr.ErrHTTPClient)
		}
	}

	p.client.logger.Debugw("loaded plan catalog",
		"plans_count", len(plans),
		"public_only", filter.PublicOnly)

	return plans, nil
}
