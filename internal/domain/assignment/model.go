package assignment

import (
	"time"

	"github.com/flexprice/adminconsole/internal/types"
	"github.com/shopspring/decimal"
)

// PlanRequest is the payload sent to the plan-assignment API when a wizard completes.
// Optional fields are omitted, never null-filled, when the answers made them inapplicable.
type PlanRequest struct {
	TenantID                string                   `json:"tenantId"`
	PlanID                  string                   `json:"planId"`
	InvoiceType             types.InvoiceType        `json:"invoiceType"`
	IsPrepayedInvoiceReason *string                  `json:"isPrepayedInvoiceReason,omitempty"`
	IsPrepayeInvoiceContab  *types.PrepayeAccounting `json:"isPrepayeInvoiceContab,omitempty"`
	BillingMethod           types.BillingMethod      `json:"billingMethod"`
	StartDate               time.Time                `json:"startDate"`
	EndDate                 time.Time                `json:"endDate"`
	Price                   *decimal.Decimal         `json:"price,omitempty"`
	TaxRate                 *decimal.Decimal         `json:"taxRate,omitempty"`
	WithReceipt             *bool                    `json:"withReceipt,omitempty"`
	PaymentMethod           *types.PaymentMethod     `json:"paymentMethod,omitempty"`
	PaymentReference        *string                  `json:"paymentReference,omitempty"`
	PaymentStatus           *types.PaymentStatus     `json:"paymentStatus,omitempty"`
	PaidAmount              *decimal.Decimal         `json:"paidAmount,omitempty"`
	DueDate                 *time.Time               `json:"dueDate,omitempty"`
	AutoRenewalEnabled      bool                     `json:"autoRenewalEnabled"`
	IsAutoGracePeriod       bool                     `json:"isAutoGracePeriod"`
	IsManualGracePeriod     bool                     `json:"isManualGracePeriod"`
	ManualGracePeriod       *int                     `json:"manualGracePeriod,omitempty"`
}

// AssignPlanRequest and ExtendPlanRequest share one shape; the endpoint decides the semantics.
type (
	AssignPlanRequest = PlanRequest
	ExtendPlanRequest = PlanRequest
)

// Receipt is the optional binary attachment sent next to the JSON payload
type Receipt struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// Result is the decoded success body of the plan-assignment API
type Result struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
}
