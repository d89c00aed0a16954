package wizard

import (
	"github.com/flexprice/adminconsole/internal/domain/assignment"
	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/flexprice/adminconsole/internal/pricing"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/samber/lo"
)

// BuildRequest serializes a completed state into the plan-assignment payload.
// Fields the answers made inapplicable are left nil so they are omitted.
func BuildRequest(cfg ModeConfig, tenantID string, s *FormState, calc *pricing.Calculation) (*assignment.PlanRequest, error) {
	if types.IsBlank(tenantID) {
		return nil, ierr.NewError("tenant id is required").
			WithHint("Tenant ID is required").
			Mark(ierr.ErrValidation)
	}

	if step := FirstInvalidStep(cfg, s, calc); step != 0 {
		return nil, ierr.NewErrorf("wizard step %d is incomplete", step).
			WithHint(ValidateStep(cfg, s, step, calc).First()).
			WithReportableDetails(map[string]any{
				"step": step,
			}).
			Mark(ierr.ErrValidation)
	}

	if s.StartDate == nil || s.EndDate == nil {
		return nil, ierr.NewError("billing period is not set").
			WithHint("Select a billing method to set the billing period").
			Mark(ierr.ErrValidation)
	}

	req := &assignment.PlanRequest{
		TenantID:            tenantID,
		PlanID:              s.SelectedPlanID,
		InvoiceType:         s.InvoiceType,
		BillingMethod:       s.BillingMethod,
		StartDate:           *s.StartDate,
		EndDate:             *s.EndDate,
		AutoRenewalEnabled:  s.AutoRenewalEnabled,
		IsAutoGracePeriod:   s.IsAutoGracePeriod,
		IsManualGracePeriod: s.IsManualGracePeriod,
	}

	if s.InvoiceType == types.InvoiceTypePrepaye {
		req.IsPrepayedInvoiceReason = lo.ToPtr(s.IsPrepayedInvoiceReason)
		req.IsPrepayeInvoiceContab = lo.ToPtr(s.IsPrepayeInvoiceContab)
	}

	if s.pricingShown() && calc != nil && calc.Available {
		req.Price = lo.ToPtr(calc.BasePrice)
		req.TaxRate = lo.ToPtr(s.TaxRate)
	}

	if s.WithReceipt {
		req.WithReceipt = lo.ToPtr(true)
		req.PaymentMethod = lo.ToPtr(s.PaymentMethod)
		req.PaymentReference = lo.ToPtr(s.PaymentReference)
		if s.PaymentStatus != "" {
			req.PaymentStatus = lo.ToPtr(s.PaymentStatus)
		}
		req.PaidAmount = s.PaidAmount
	}

	if s.InvoiceType == types.InvoiceTypeStandard && s.DueDate != nil {
		req.DueDate = s.DueDate
	}

	if s.IsManualGracePeriod {
		req.ManualGracePeriod = s.ManualGracePeriod
	}

	return req, nil
}
