package wizard

import (
	"github.com/flexprice/adminconsole/internal/pricing"
	"github.com/flexprice/adminconsole/internal/types"
)

// Price derives the pricing of a state. The paid amount only counts for
// extensions and for receipts.
func Price(cfg ModeConfig, s *FormState) *pricing.Calculation {
	in := pricing.Input{
		Plan:            s.SelectedPlan,
		BillingMethod:   s.BillingMethod,
		CustomPrice:     s.CustomPrice,
		TaxRate:         s.TaxRate,
		DefaultCurrency: cfg.DefaultCurrency,
	}
	if s.WithReceipt || cfg.Mode == types.WizardModeExtend {
		in.PaidAmount = s.PaidAmount
	}
	return pricing.Calculate(in)
}

// Project turns the state at the given step into its step variant
func Project(cfg ModeConfig, s *FormState, step int, calc *pricing.Calculation) Step {
	switch cfg.StepKindAt(step) {
	case StepKindPlan:
		return PlanSelection{
			PlanID:   s.SelectedPlanID,
			Plan:     s.SelectedPlan,
			ReadOnly: cfg.PlanReadOnly(),
		}
	case StepKindInvoiceType:
		return InvoiceSelection{
			InvoiceType: s.InvoiceType,
			Reason:      s.IsPrepayedInvoiceReason,
		}
	case StepKindBilling:
		return Composite{
			kind:  StepKindBilling,
			Parts: []Step{billingSelection(s), billingConfiguration(s, calc)},
		}
	case StepKindBillingMethod:
		return billingSelection(s)
	case StepKindBillingConfiguration:
		return Composite{
			kind:  StepKindBillingConfiguration,
			Parts: []Step{billingConfiguration(s, calc), paymentDetails(s, calc)},
		}
	case StepKindPayment:
		return paymentDetails(s, calc)
	case StepKindGracePeriod:
		return GraceConfiguration{
			Auto:    s.IsAutoGracePeriod,
			Manual:  s.IsManualGracePeriod,
			Days:    s.ManualGracePeriod,
			MaxDays: cfg.MaxManualGraceDays,
		}
	default:
		return outOfRange{step: step}
	}
}

func billingSelection(s *FormState) Step {
	return BillingSelection{Method: s.BillingMethod}
}

func billingConfiguration(s *FormState, calc *pricing.Calculation) Step {
	return BillingConfiguration{
		Method:           s.BillingMethod,
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
		PriceRequired:    s.pricingShown(),
		CustomPrice:      s.CustomPrice,
		PricingAvailable: calc != nil && calc.Available,
	}
}

func paymentDetails(s *FormState, calc *pricing.Calculation) Step {
	return PaymentDetails{
		InvoiceType:      s.InvoiceType,
		WithReceipt:      s.WithReceipt,
		PaymentMethod:    s.PaymentMethod,
		PaymentReference: s.PaymentReference,
		PaymentStatus:    s.PaymentStatus,
		PaidAmount:       s.PaidAmount,
		DueDate:          s.DueDate,
		FullyCovered:     s.WithReceipt && calc.Covers(s.PaidAmount),
	}
}

// ValidateStep returns the field errors that keep the given step from advancing
func ValidateStep(cfg ModeConfig, s *FormState, step int, calc *pricing.Calculation) FieldErrors {
	if s == nil {
		return FieldErrors{fieldCurrentStep: "The wizard has no state"}
	}
	return Project(cfg, s, step, calc).Validate()
}

// CanAdvance reports whether the current step is complete. It never fails:
// a missing answer simply yields false.
func CanAdvance(cfg ModeConfig, s *FormState, calc *pricing.Calculation) bool {
	if s == nil {
		return false
	}
	return len(ValidateStep(cfg, s, s.CurrentStep, calc)) == 0
}

// Hint is the sentence shown next to a disabled Next/Submit button
func Hint(cfg ModeConfig, s *FormState, calc *pricing.Calculation) string {
	if s == nil {
		return ""
	}
	return ValidateStep(cfg, s, s.CurrentStep, calc).First()
}

// FirstInvalidStep returns the first step whose rules do not hold, or 0 when
// the whole wizard is complete. Earlier answers can be edited after their
// step was passed, so submission re-checks every step.
func FirstInvalidStep(cfg ModeConfig, s *FormState, calc *pricing.Calculation) int {
	for step := FirstStep; step <= TotalSteps; step++ {
		if len(ValidateStep(cfg, s, step, calc)) > 0 {
			return step
		}
	}
	return 0
}
