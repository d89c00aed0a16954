package types

import ierr "github.com/flexprice/adminconsole/internal/errors"

// PlanFilter represents the filter options accepted by the plan catalog
type PlanFilter struct {
	// PublicOnly restricts the catalog to plans offered on the public price list
	PublicOnly bool `json:"public_only,omitempty" form:"public_only"`

	PlanIDs []string `json:"plan_ids,omitempty" form:"plan_ids" validate:"omitempty"`
}

// NewPlanFilter creates a new plan filter with default options
func NewPlanFilter() *PlanFilter {
	return &PlanFilter{}
}

// NewPublicPlanFilter creates a filter that only matches public plans
func NewPublicPlanFilter() *PlanFilter {
	return &PlanFilter{PublicOnly: true}
}

// Validate validates the filter options
func (f *PlanFilter) Validate() error {
	for _, planID := range f.PlanIDs {
		if planID == "" {
			return ierr.NewError("plan id can not be empty").
				WithHint("Plan info can not be empty").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
