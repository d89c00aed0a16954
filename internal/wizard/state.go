package wizard

import (
	"time"

	"github.com/flexprice/adminconsole/internal/domain/assignment"
	"github.com/flexprice/adminconsole/internal/domain/plan"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/shopspring/decimal"
)

const (
	FirstStep  = 1
	TotalSteps = 5
)

// FormState is the mutable answer sheet of one wizard. It is only written
// through Wizard.UpdateField and the navigation methods.
type FormState struct {
	CurrentStep int `json:"currentStep"`

	SelectedPlanID string     `json:"selectedPlanId"`
	SelectedPlan   *plan.Plan `json:"selectedPlan,omitempty"`

	InvoiceType             types.InvoiceType       `json:"invoiceType"`
	IsPrepayeInvoiceContab  types.PrepayeAccounting `json:"isPrepayeInvoiceContab"`
	IsPrepayedInvoiceReason string                  `json:"isPrepayedInvoiceReason"`

	BillingMethod types.BillingMethod `json:"billingMethod"`
	StartDate     *time.Time          `json:"startDate"`
	EndDate       *time.Time          `json:"endDate"`
	CustomPrice   *decimal.Decimal    `json:"customPrice"`
	TaxRate       decimal.Decimal     `json:"taxRate"`

	WithReceipt      bool                `json:"withReceipt"`
	ReceiptFile      *assignment.Receipt `json:"receiptFile,omitempty"`
	PaymentMethod    types.PaymentMethod `json:"paymentMethod"`
	PaymentReference string              `json:"paymentReference"`
	PaymentStatus    types.PaymentStatus `json:"paymentStatus"`
	PaidAmount       *decimal.Decimal    `json:"paidAmount"`
	DueDate          *time.Time          `json:"dueDate"`

	AutoRenewalEnabled bool `json:"autoRenewalEnabled"`

	IsAutoGracePeriod   bool `json:"isAutoGracePeriod"`
	IsManualGracePeriod bool `json:"isManualGracePeriod"`
	ManualGracePeriod   *int `json:"manualGracePeriod"`

	Errors FieldErrors `json:"errors"`
}

// newFormState returns the state a freshly opened wizard starts from
func newFormState(taxRate decimal.Decimal) *FormState {
	return &FormState{
		CurrentStep:       FirstStep,
		InvoiceType:       types.InvoiceTypeStandard,
		TaxRate:           taxRate,
		IsAutoGracePeriod: true,
		Errors:            FieldErrors{},
	}
}

// Clone returns a deep enough copy for callers that must not observe later writes
func (s *FormState) Clone() *FormState {
	if s == nil {
		return nil
	}
	out := *s
	out.Errors = make(FieldErrors, len(s.Errors))
	for k, v := range s.Errors {
		out.Errors[k] = v
	}
	if s.ReceiptFile != nil {
		receipt := *s.ReceiptFile
		out.ReceiptFile = &receipt
	}
	return &out
}

// pricingShown reports whether price and tax apply to the current invoice type.
// Prepaid invoices only carry pricing when they are accounted ("comptabilisé").
func (s *FormState) pricingShown() bool {
	if s.InvoiceType == types.InvoiceTypePrepaye {
		return s.IsPrepayeInvoiceContab == types.PrepayeAccounted
	}
	return true
}

func (s *FormState) clearErrors(fields ...Field) {
	for _, f := range fields {
		delete(s.Errors, f)
	}
}

// clearHiddenPricingErrors drops the price error once pricing no longer applies
func (s *FormState) clearHiddenPricingErrors() {
	if !s.pricingShown() {
		s.clearErrors(FieldCustomPrice)
	}
}

func (s *FormState) clearReceipt() {
	s.ReceiptFile = nil
	s.PaymentMethod = ""
	s.PaymentReference = ""
	s.PaymentStatus = ""
	s.PaidAmount = nil
}
