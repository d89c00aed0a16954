package wizard

// Field names the writable members of FormState. The names match the JSON
// keys the dashboard uses.
type Field string

const (
	FieldSelectedPlanID          Field = "selectedPlanId"
	FieldInvoiceType             Field = "invoiceType"
	FieldIsPrepayeInvoiceContab  Field = "isPrepayeInvoiceContab"
	FieldIsPrepayedInvoiceReason Field = "isPrepayedInvoiceReason"
	FieldBillingMethod           Field = "billingMethod"
	FieldStartDate               Field = "startDate"
	FieldEndDate                 Field = "endDate"
	FieldCustomPrice             Field = "customPrice"
	FieldTaxRate                 Field = "taxRate"
	FieldWithReceipt             Field = "withReceipt"
	FieldReceiptFile             Field = "receiptFile"
	FieldPaymentMethod           Field = "paymentMethod"
	FieldPaymentReference        Field = "paymentReference"
	FieldPaymentStatus           Field = "paymentStatus"
	FieldPaidAmount              Field = "paidAmount"
	FieldDueDate                 Field = "dueDate"
	FieldAutoRenewalEnabled      Field = "autoRenewalEnabled"
	FieldIsAutoGracePeriod       Field = "isAutoGracePeriod"
	FieldIsManualGracePeriod     Field = "isManualGracePeriod"
	FieldManualGracePeriod       Field = "manualGracePeriod"

	// fieldCurrentStep is only used to report an out-of-range step
	fieldCurrentStep Field = "currentStep"
)

// fieldOrder is the order fields appear on screen; hints report the first failing one
var fieldOrder = []Field{
	fieldCurrentStep,
	FieldSelectedPlanID,
	FieldInvoiceType,
	FieldIsPrepayeInvoiceContab,
	FieldIsPrepayedInvoiceReason,
	FieldBillingMethod,
	FieldStartDate,
	FieldEndDate,
	FieldCustomPrice,
	FieldTaxRate,
	FieldWithReceipt,
	FieldReceiptFile,
	FieldPaymentMethod,
	FieldPaymentReference,
	FieldPaymentStatus,
	FieldPaidAmount,
	FieldDueDate,
	FieldAutoRenewalEnabled,
	FieldIsAutoGracePeriod,
	FieldIsManualGracePeriod,
	FieldManualGracePeriod,
}

// FieldErrors maps a field to a human readable message
type FieldErrors map[Field]string

func (e FieldErrors) add(field Field, msg string) FieldErrors {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
	return e
}

func (e FieldErrors) merge(other FieldErrors) FieldErrors {
	for field, msg := range other {
		e.add(field, msg)
	}
	return e
}

// First returns the message of the first failing field in screen order
func (e FieldErrors) First() string {
	for _, field := range fieldOrder {
		if msg, ok := e[field]; ok {
			return msg
		}
	}
	return ""
}
