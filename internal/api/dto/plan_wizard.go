package dto

import (
	"time"

	"github.com/flexprice/adminconsole/internal/domain/plan"
	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/flexprice/adminconsole/internal/pricing"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/flexprice/adminconsole/internal/validator"
	"github.com/flexprice/adminconsole/internal/wizard"
	"github.com/shopspring/decimal"
)

// OpenPlanWizardRequest opens an assignment or extension wizard for a tenant.
// The tenant id comes from the path.
type OpenPlanWizardRequest struct {
	TenantID   string           `json:"-"`
	TenantName string           `json:"tenant_name" validate:"required"`
	Mode       types.WizardMode `json:"mode" validate:"required"`
	// Seed carries the subscription being extended; required for extend
	Seed *wizard.Seed `json:"seed,omitempty"`
}

func (r *OpenPlanWizardRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if types.IsBlank(r.TenantID) {
		return ierr.NewError("tenant id is required").
			WithHint("Tenant ID is required").
			Mark(ierr.ErrValidation)
	}

	if err := r.Mode.Validate(); err != nil {
		return err
	}

	if r.Mode == types.WizardModeExtend && (r.Seed == nil || types.IsBlank(r.Seed.PlanID)) {
		return ierr.NewError("seed plan is required to extend").
			WithHint("The current plan of the tenant is required to extend it").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// UpdateWizardFieldRequest writes a single answer
type UpdateWizardFieldRequest struct {
	Field wizard.Field `json:"field" validate:"required"`
	Value any          `json:"value"`
}

func (r *UpdateWizardFieldRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// PricingResponse is the pricing shown next to the form, rounded for display
type PricingResponse struct {
	Available       bool             `json:"available"`
	BasePrice       decimal.Decimal  `json:"base_price"`
	TaxAmount       decimal.Decimal  `json:"tax_amount"`
	TotalPrice      decimal.Decimal  `json:"total_price"`
	Currency        string           `json:"currency"`
	CurrencySymbol  string           `json:"currency_symbol"`
	RemainingAmount *decimal.Decimal `json:"remaining_amount,omitempty"`
}

// NewPricingResponse rounds a calculation for display
func NewPricingResponse(calc *pricing.Calculation) *PricingResponse {
	if calc == nil {
		return nil
	}
	rounded := calc.Rounded()
	return &PricingResponse{
		Available:       rounded.Available,
		BasePrice:       rounded.BasePrice,
		TaxAmount:       rounded.TaxAmount,
		TotalPrice:      rounded.TotalPrice,
		Currency:        rounded.Currency,
		CurrencySymbol:  types.GetCurrencySymbol(rounded.Currency),
		RemainingAmount: rounded.RemainingAmount,
	}
}

// PlanWizardResponse is everything the dashboard needs to render a wizard
type PlanWizardResponse struct {
	ID          string             `json:"id"`
	TenantID    string             `json:"tenant_id"`
	TenantName  string             `json:"tenant_name"`
	Mode        types.WizardMode   `json:"mode"`
	CurrentStep int                `json:"current_step"`
	TotalSteps  int                `json:"total_steps"`
	StepKind    wizard.StepKind    `json:"step_kind"`
	PlanLocked  bool               `json:"plan_locked"`
	CanAdvance  bool               `json:"can_advance"`
	Hint        string             `json:"hint,omitempty"`
	Loading     bool               `json:"loading"`
	SubmitError string             `json:"submit_error,omitempty"`
	State       *wizard.FormState  `json:"state"`
	Errors      wizard.FieldErrors `json:"errors"`
	Pricing     *PricingResponse   `json:"pricing"`
	Plans       []*plan.Plan       `json:"plans"`
	CreatedAt   time.Time          `json:"created_at"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// SubmitPlanWizardResponse is returned once the plan-assignment API accepted the wizard
type SubmitPlanWizardResponse struct {
	Success  bool             `json:"success"`
	ID       string           `json:"id"`
	TenantID string           `json:"tenant_id"`
	Mode     types.WizardMode `json:"mode"`
	PlanID   string           `json:"plan_id"`
	EventID  string           `json:"event_id,omitempty"`
	Data     map[string]any   `json:"data,omitempty"`
}
