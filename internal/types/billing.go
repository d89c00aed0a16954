package types

import (
	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/samber/lo"
)

// InvoiceType decides whether the plan is billed after the fact (STANDARD)
// or was paid up front (PREPAYE)
type InvoiceType string

const (
	InvoiceTypeStandard InvoiceType = "STANDARD"
	InvoiceTypePrepaye  InvoiceType = "PREPAYE"
)

func (t InvoiceType) String() string {
	return string(t)
}

func (t InvoiceType) Validate() error {
	allowedValues := []InvoiceType{
		InvoiceTypeStandard,
		InvoiceTypePrepaye,
	}
	if !lo.Contains(allowedValues, t) {
		return ierr.NewError("invalid invoice type").
			WithHint("Invoice type must be STANDARD or PREPAYE").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingMethod is the cadence used to derive the subscription period
type BillingMethod string

const (
	BillingMethodMonthly BillingMethod = "MONTHLY"
	BillingMethodYearly  BillingMethod = "YEARLY"
	BillingMethodCustom  BillingMethod = "CUSTOM"
)

func (b BillingMethod) String() string {
	return string(b)
}

func (b BillingMethod) Validate() error {
	allowedValues := []BillingMethod{
		BillingMethodMonthly,
		BillingMethodYearly,
		BillingMethodCustom,
	}
	if !lo.Contains(allowedValues, b) {
		return ierr.NewError("invalid billing method").
			WithHint("Billing method must be MONTHLY, YEARLY or CUSTOM").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": b,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsSystemDerived reports whether the period dates are computed rather than entered
func (b BillingMethod) IsSystemDerived() bool {
	return b == BillingMethodMonthly || b == BillingMethodYearly
}

// PrepayeAccounting flags whether a prepaid invoice is tracked with a price and tax
// ("comptabilisé"). It is serialized as 0/1.
type PrepayeAccounting int

const (
	PrepayeNotAccounted PrepayeAccounting = 0
	PrepayeAccounted    PrepayeAccounting = 1
)

func (p PrepayeAccounting) Validate() error {
	if p != PrepayeNotAccounted && p != PrepayeAccounted {
		return ierr.NewError("invalid prepaid accounting flag").
			WithHint("isPrepayeInvoiceContab must be 0 or 1").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// WizardMode selects between the assignment and the extension workflow
type WizardMode string

const (
	WizardModeAssign WizardMode = "assign"
	WizardModeExtend WizardMode = "extend"
)

func (m WizardMode) String() string {
	return string(m)
}

func (m WizardMode) Validate() error {
	allowedValues := []WizardMode{
		WizardModeAssign,
		WizardModeExtend,
	}
	if !lo.Contains(allowedValues, m) {
		return ierr.NewError("invalid wizard mode").
			WithHint("Wizard mode must be assign or extend").
			WithReportableDetails(map[string]any{
				"allowed_values": allowedValues,
				"provided_value": m,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
