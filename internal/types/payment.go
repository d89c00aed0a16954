package types

import (
	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/samber/lo"
)

// PaymentMethod is how a receipt was settled
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Validate() error {
	allowed := []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodCheck,
		PaymentMethodBankTransfer,
		PaymentMethodCard,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid payment method").
			WithHintf("Payment method must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentStatus is the settlement state recorded on a receipt
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPending PaymentStatus = "PENDING"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Validate() error {
	allowed := []PaymentStatus{
		PaymentStatusPaid,
		PaymentStatusPartial,
		PaymentStatusPending,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid payment status").
			WithHintf("Payment status must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}
