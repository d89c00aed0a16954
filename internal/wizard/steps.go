package wizard

import (
	"fmt"
	"time"

	"github.com/flexprice/adminconsole/internal/domain/plan"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/shopspring/decimal"
)

// StepKind identifies what a wizard step asks for
type StepKind string

const (
	StepKindUnknown              StepKind = "unknown"
	StepKindPlan                 StepKind = "plan"
	StepKindInvoiceType          StepKind = "invoice_type"
	StepKindBilling              StepKind = "billing"
	StepKindBillingMethod        StepKind = "billing_method"
	StepKindBillingConfiguration StepKind = "billing_configuration"
	StepKindPayment              StepKind = "payment"
	StepKindGracePeriod          StepKind = "grace_period"
)

// Step is one variant of the step model. A variant only carries the fields
// that matter for the current invoice type, accounting flag and billing
// method, so Validate is total over what it holds.
type Step interface {
	Kind() StepKind
	Validate() FieldErrors
}

// PlanSelection is step 1
type PlanSelection struct {
	PlanID   string
	Plan     *plan.Plan
	ReadOnly bool
}

func (PlanSelection) Kind() StepKind { return StepKindPlan }

func (s PlanSelection) Validate() FieldErrors {
	errs := FieldErrors{}
	if types.IsBlank(s.PlanID) {
		return errs.add(FieldSelectedPlanID, "Select a plan to continue")
	}
	if s.Plan == nil || s.Plan.ID != s.PlanID {
		errs.add(FieldSelectedPlanID, "The selected plan is not available in the catalog")
	}
	return errs
}

// InvoiceSelection is step 2
type InvoiceSelection struct {
	InvoiceType types.InvoiceType
	Reason      string
}

func (InvoiceSelection) Kind() StepKind { return StepKindInvoiceType }

func (s InvoiceSelection) Validate() FieldErrors {
	errs := FieldErrors{}
	if s.InvoiceType == "" {
		return errs.add(FieldInvoiceType, "Select an invoice type")
	}
	if s.InvoiceType.Validate() != nil {
		return errs.add(FieldInvoiceType, "Invoice type must be STANDARD or PREPAYE")
	}
	if s.InvoiceType == types.InvoiceTypePrepaye && types.IsBlank(s.Reason) {
		errs.add(FieldIsPrepayedInvoiceReason, "Give a reason for the prepaid invoice")
	}
	return errs
}

// BillingSelection picks the billing method
type BillingSelection struct {
	Method types.BillingMethod
}

func (BillingSelection) Kind() StepKind { return StepKindBillingMethod }

func (s BillingSelection) Validate() FieldErrors {
	errs := FieldErrors{}
	if s.Method == "" {
		return errs.add(FieldBillingMethod, "Select a billing method")
	}
	if s.Method.Validate() != nil {
		errs.add(FieldBillingMethod, "Billing method must be MONTHLY, YEARLY or CUSTOM")
	}
	return errs
}

// BillingConfiguration holds the period and price for the chosen method.
// PriceRequired is false for prepaid invoices that are not accounted.
type BillingConfiguration struct {
	Method           types.BillingMethod
	StartDate        *time.Time
	EndDate          *time.Time
	PriceRequired    bool
	CustomPrice      *decimal.Decimal
	PricingAvailable bool
}

func (BillingConfiguration) Kind() StepKind { return StepKindBillingConfiguration }

func (s BillingConfiguration) Validate() FieldErrors {
	errs := FieldErrors{}
	custom := s.Method == types.BillingMethodCustom

	if custom {
		errs.merge(validateDateRange(s.StartDate, s.EndDate))
	}

	if s.PriceRequired {
		switch {
		case s.CustomPrice != nil && !s.CustomPrice.IsPositive():
			errs.add(FieldCustomPrice, "The custom price must be greater than zero")
		case custom && s.CustomPrice == nil:
			errs.add(FieldCustomPrice, "Enter a price for the custom billing period")
		case !s.PricingAvailable:
			errs.add(FieldCustomPrice, "No price is available for this billing method, enter a custom price")
		}
	}
	return errs
}

// validateDateRange applies to user supplied CUSTOM dates only
func validateDateRange(start, end *time.Time) FieldErrors {
	errs := FieldErrors{}
	if start == nil {
		errs.add(FieldStartDate, "Enter a start date")
	}
	if end == nil {
		errs.add(FieldEndDate, "Enter an end date")
	}
	if start != nil && end != nil && !end.After(*start) {
		errs.add(FieldEndDate, "The end date must be after the start date")
	}
	return errs
}

// PaymentDetails covers the receipt and due date
type PaymentDetails struct {
	InvoiceType      types.InvoiceType
	WithReceipt      bool
	PaymentMethod    types.PaymentMethod
	PaymentReference string
	PaymentStatus    types.PaymentStatus
	PaidAmount       *decimal.Decimal
	DueDate          *time.Time
	// FullyCovered is true when the receipt's paid amount settles the total
	FullyCovered bool
}

func (PaymentDetails) Kind() StepKind { return StepKindPayment }

func (s PaymentDetails) Validate() FieldErrors {
	errs := FieldErrors{}
	if s.WithReceipt {
		switch {
		case s.PaymentMethod == "":
			errs.add(FieldPaymentMethod, "Select the payment method of the receipt")
		case s.PaymentMethod.Validate() != nil:
			errs.add(FieldPaymentMethod, "Unknown payment method")
		}
		if types.IsBlank(s.PaymentReference) {
			errs.add(FieldPaymentReference, "Enter the payment reference of the receipt")
		}
		if s.PaymentStatus != "" && s.PaymentStatus.Validate() != nil {
			errs.add(FieldPaymentStatus, "Unknown payment status")
		}
		if s.PaidAmount != nil && s.PaidAmount.IsNegative() {
			errs.add(FieldPaidAmount, "The paid amount can not be negative")
		}
	}

	if s.InvoiceType == types.InvoiceTypeStandard && s.DueDate == nil && !s.FullyCovered {
		errs.add(FieldDueDate, "Enter a due date for the unpaid balance")
	}
	return errs
}

// GraceConfiguration is the last step
type GraceConfiguration struct {
	Auto    bool
	Manual  bool
	Days    *int
	MaxDays int
}

func (GraceConfiguration) Kind() StepKind { return StepKindGracePeriod }

func (s GraceConfiguration) Validate() FieldErrors {
	errs := FieldErrors{}
	if s.Auto == s.Manual {
		return errs.add(FieldIsAutoGracePeriod, "Choose either the automatic or a manual grace period")
	}
	if s.Manual && (s.Days == nil || *s.Days < 1 || *s.Days > s.MaxDays) {
		errs.add(FieldManualGracePeriod, fmt.Sprintf("The manual grace period must be between 1 and %d days", s.MaxDays))
	}
	return errs
}

// Composite validates several variants shown on the same screen
type Composite struct {
	kind  StepKind
	Parts []Step
}

func (c Composite) Kind() StepKind { return c.kind }

func (c Composite) Validate() FieldErrors {
	errs := FieldErrors{}
	for _, part := range c.Parts {
		errs.merge(part.Validate())
	}
	return errs
}

// outOfRange is projected when the current step is outside the layout
type outOfRange struct {
	step int
}

func (outOfRange) Kind() StepKind { return StepKindUnknown }

func (s outOfRange) Validate() FieldErrors {
	return FieldErrors{fieldCurrentStep: fmt.Sprintf("Step %d does not exist", s.step)}
}
