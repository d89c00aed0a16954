package wizard

import (
	"time"

	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/flexprice/adminconsole/internal/domain/plan"
	"github.com/flexprice/adminconsole/internal/types"
)

// UpdateField is the only way answers change. Writes to some fields derive
// others: grace modes exclude each other, the billing method resets the
// period, and the plan id denormalizes the plan. A rejected write leaves the
// state untouched.
func (w *Wizard) UpdateField(field Field, value any) error {
	if err := w.apply(field, value); err != nil {
		return err
	}
	delete(w.state.Errors, field)
	return nil
}

func (w *Wizard) apply(field Field, value any) error {
	s := w.state

	switch field {
	case FieldSelectedPlanID:
		if w.cfg.PlanReadOnly() {
			return ierr.NewError("plan is read-only when extending").
				WithHint("The plan can not be changed when extending a subscription").
				Mark(ierr.ErrInvalidOperation)
		}
		id, err := toString(field, value)
		if err != nil {
			return err
		}
		s.SelectedPlanID = id
		s.SelectedPlan = plan.FindByID(w.catalog, id)

	case FieldInvoiceType:
		v, err := toString(field, value)
		if err != nil {
			return err
		}
		invoiceType := types.InvoiceType(v)
		if err := invoiceType.Validate(); err != nil {
			return err
		}
		s.InvoiceType = invoiceType
		if invoiceType == types.InvoiceTypeStandard {
			s.IsPrepayedInvoiceReason = ""
			s.IsPrepayeInvoiceContab = types.PrepayeNotAccounted
			s.clearErrors(FieldIsPrepayedInvoiceReason, FieldIsPrepayeInvoiceContab)
		} else {
			// prepaid invoices carry no due date
			s.clearErrors(FieldDueDate)
		}
		s.clearHiddenPricingErrors()

	case FieldIsPrepayeInvoiceContab:
		n, err := toInt(field, value)
		if err != nil {
			return err
		}
		flag := types.PrepayeNotAccounted
		if n != nil {
			flag = types.PrepayeAccounting(*n)
		}
		if err := flag.Validate(); err != nil {
			return err
		}
		s.IsPrepayeInvoiceContab = flag
		s.clearHiddenPricingErrors()

	case FieldIsPrepayedInvoiceReason:
		v, err := toString(field, value)
		if err != nil {
			return err
		}
		s.IsPrepayedInvoiceReason = v

	case FieldBillingMethod:
		v, err := toString(field, value)
		if err != nil {
			return err
		}
		method := types.BillingMethod(v)
		if err := method.Validate(); err != nil {
			return err
		}
		w.setBillingMethod(method)

	case FieldStartDate, FieldEndDate:
		if s.BillingMethod != types.BillingMethodCustom {
			return ierr.NewErrorf("%s is derived for billing method %q", field, s.BillingMethod).
				WithHint("Dates can only be entered for the CUSTOM billing method").
				Mark(ierr.ErrInvalidOperation)
		}
		t, err := toTime(field, value)
		if err != nil {
			return err
		}
		if field == FieldStartDate {
			s.StartDate = t
		} else {
			s.EndDate = t
		}
		// the pair is validated together, a fix on one side clears both
		delete(s.Errors, FieldStartDate)
		delete(s.Errors, FieldEndDate)

	case FieldCustomPrice:
		d, err := toDecimal(field, value)
		if err != nil {
			return err
		}
		s.CustomPrice = d

	case FieldTaxRate:
		d, err := toDecimal(field, value)
		if err != nil {
			return err
		}
		if d == nil {
			return invalidValue(field, value)
		}
		if err := validateTaxRate(*d); err != nil {
			return err
		}
		s.TaxRate = *d

	case FieldWithReceipt:
		b, err := toBool(field, value)
		if err != nil {
			return err
		}
		s.WithReceipt = b
		if !b {
			s.clearReceipt()
			for _, f := range []Field{FieldReceiptFile, FieldPaymentMethod, FieldPaymentReference, FieldPaymentStatus, FieldPaidAmount} {
				delete(s.Errors, f)
			}
		}

	case FieldReceiptFile:
		if value != nil {
			return ierr.NewError("receipt files must be attached through the receipt upload").
				WithHint("Upload the receipt file instead").
				Mark(ierr.ErrInvalidOperation)
		}
		s.ReceiptFile = nil

	case FieldPaymentMethod:
		v, err := toString(field, value)
		if err != nil {
			return err
		}
		method := types.PaymentMethod(v)
		if method != "" {
			if err := method.Validate(); err != nil {
				return err
			}
		}
		s.PaymentMethod = method

	case FieldPaymentReference:
		v, err := toString(field, value)
		if err != nil {
			return err
		}
		s.PaymentReference = v

	case FieldPaymentStatus:
		v, err := toString(field, value)
		if err != nil {
			return err
		}
		status := types.PaymentStatus(v)
		if status != "" {
			if err := status.Validate(); err != nil {
				return err
			}
		}
		s.PaymentStatus = status

	case FieldPaidAmount:
		d, err := toDecimal(field, value)
		if err != nil {
			return err
		}
		s.PaidAmount = d
		delete(s.Errors, FieldDueDate)

	case FieldDueDate:
		t, err := toTime(field, value)
		if err != nil {
			return err
		}
		s.DueDate = t

	case FieldAutoRenewalEnabled:
		b, err := toBool(field, value)
		if err != nil {
			return err
		}
		s.AutoRenewalEnabled = b

	case FieldIsAutoGracePeriod:
		b, err := toBool(field, value)
		if err != nil {
			return err
		}
		s.IsAutoGracePeriod = b
		if b {
			s.IsManualGracePeriod = false
			s.ManualGracePeriod = nil
			delete(s.Errors, FieldManualGracePeriod)
		}

	case FieldIsManualGracePeriod:
		b, err := toBool(field, value)
		if err != nil {
			return err
		}
		s.IsManualGracePeriod = b
		if b {
			s.IsAutoGracePeriod = false
		}
		delete(s.Errors, FieldIsAutoGracePeriod)

	case FieldManualGracePeriod:
		n, err := toInt(field, value)
		if err != nil {
			return err
		}
		s.ManualGracePeriod = n

	default:
		return ierr.NewErrorf("unknown wizard field %q", field).
			WithHintf("Unknown field %s", field).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// setBillingMethod derives the period: MONTHLY/YEARLY start now, CUSTOM waits
// for the admin to enter both dates.
func (w *Wizard) setBillingMethod(method types.BillingMethod) {
	s := w.state
	s.BillingMethod = method

	switch method {
	case types.BillingMethodMonthly, types.BillingMethodYearly:
		start := w.now().UTC()
		end := periodEnd(start, method)
		s.StartDate = &start
		s.EndDate = &end
	default:
		s.StartDate = nil
		s.EndDate = nil
	}
	// the price requirement depends on the method
	s.clearErrors(FieldStartDate, FieldEndDate, FieldCustomPrice)
}

func periodEnd(start time.Time, method types.BillingMethod) time.Time {
	if method == types.BillingMethodYearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}
