package wizard

import (
	"github.com/flexprice/adminconsole/internal/config"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/shopspring/decimal"
)

// ModeConfig parameterises the single wizard engine for assignment or extension.
//
// The two workflows differ in three places only: the plan is read-only when
// extending, extension splits billing-method selection and billing
// configuration into separate steps, and the manual grace-period ceiling.
type ModeConfig struct {
	Mode               types.WizardMode
	MaxManualGraceDays int
	DefaultTaxRate     decimal.Decimal
	DefaultCurrency    string
	ReceiptMaxBytes    int64
}

// NewModeConfig builds the mode configuration from the wizard settings
func NewModeConfig(mode types.WizardMode, cfg config.WizardConfig) ModeConfig {
	maxGrace := cfg.AssignMaxGraceDays
	if mode == types.WizardModeExtend {
		maxGrace = cfg.ExtendMaxGraceDays
	}
	return ModeConfig{
		Mode:               mode,
		MaxManualGraceDays: maxGrace,
		DefaultTaxRate:     decimal.NewFromFloat(cfg.DefaultTaxRate),
		DefaultCurrency:    cfg.DefaultCurrency,
		ReceiptMaxBytes:    cfg.ReceiptMaxBytes,
	}
}

// PlanReadOnly reports whether the plan is fixed by the existing subscription
func (c ModeConfig) PlanReadOnly() bool {
	return c.Mode == types.WizardModeExtend
}

var layouts = map[types.WizardMode][TotalSteps]StepKind{
	types.WizardModeAssign: {
		StepKindPlan,
		StepKindInvoiceType,
		StepKindBilling,
		StepKindPayment,
		StepKindGracePeriod,
	},
	types.WizardModeExtend: {
		StepKindPlan,
		StepKindInvoiceType,
		StepKindBillingMethod,
		StepKindBillingConfiguration,
		StepKindGracePeriod,
	},
}

// StepKindAt returns the kind of the 1-based step, or StepKindUnknown
func (c ModeConfig) StepKindAt(step int) StepKind {
	layout, ok := layouts[c.Mode]
	if !ok || step < FirstStep || step > TotalSteps {
		return StepKindUnknown
	}
	return layout[step-1]
}

// Seed pre-fills a wizard, typically from the subscription being extended
type Seed struct {
	PlanID             string              `json:"plan_id"`
	InvoiceType        types.InvoiceType   `json:"invoice_type,omitempty"`
	BillingMethod      types.BillingMethod `json:"billing_method,omitempty"`
	TaxRate            *decimal.Decimal    `json:"tax_rate,omitempty"`
	AutoRenewalEnabled bool                `json:"auto_renewal_enabled"`
	ManualGracePeriod  *int                `json:"manual_grace_period,omitempty"`
}
