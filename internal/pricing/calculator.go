// Package pricing derives the amounts shown and submitted by the plan wizard.
// Every function here is pure; callers recompute on each read instead of caching.
package pricing

import (
	"github.com/flexprice/adminconsole/internal/domain/plan"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/shopspring/decimal"
)

// Input is everything a calculation depends on
type Input struct {
	Plan          *plan.Plan
	BillingMethod types.BillingMethod
	CustomPrice   *decimal.Decimal
	TaxRate       decimal.Decimal
	// PaidAmount is set for extensions and for standard invoices backed by a receipt
	PaidAmount      *decimal.Decimal
	DefaultCurrency string
}

// Calculation is the derived pricing of a wizard. When Available is false no
// price source could be resolved and the amounts are zero.
type Calculation struct {
	Available       bool             `json:"available"`
	BasePrice       decimal.Decimal  `json:"base_price"`
	TaxAmount       decimal.Decimal  `json:"tax_amount"`
	TotalPrice      decimal.Decimal  `json:"total_price"`
	Currency        string           `json:"currency"`
	RemainingAmount *decimal.Decimal `json:"remaining_amount,omitempty"`
}

// Calculate derives base price, tax, total and remaining balance.
//
// CUSTOM billing only ever uses the custom price. MONTHLY and YEARLY use the
// custom price when one is set and fall back to the plan's list price.
func Calculate(in Input) *Calculation {
	calc := &Calculation{
		Currency: currencyFor(in.Plan, in.DefaultCurrency),
	}

	base, ok := basePrice(in)
	if !ok {
		return calc
	}

	calc.Available = true
	calc.BasePrice = base
	calc.TaxAmount = base.Mul(in.TaxRate)
	calc.TotalPrice = base.Add(calc.TaxAmount)

	if in.PaidAmount != nil {
		remaining := decimal.Max(decimal.Zero, calc.TotalPrice.Sub(*in.PaidAmount))
		calc.RemainingAmount = &remaining
	}

	return calc
}

func basePrice(in Input) (decimal.Decimal, bool) {
	if in.BillingMethod == types.BillingMethodCustom {
		if in.CustomPrice == nil {
			return decimal.Zero, false
		}
		return *in.CustomPrice, true
	}

	if in.CustomPrice != nil {
		return *in.CustomPrice, true
	}

	return in.Plan.PriceFor(in.BillingMethod)
}

func currencyFor(p *plan.Plan, fallback string) string {
	if p != nil && p.Currency != "" {
		return p.Currency
	}
	return fallback
}

// Covers reports whether paid settles the full total. An unavailable
// calculation is never covered.
func (c *Calculation) Covers(paid *decimal.Decimal) bool {
	if c == nil || !c.Available || paid == nil {
		return false
	}
	return paid.GreaterThanOrEqual(c.TotalPrice)
}

// Rounded returns a copy rounded to the currency's minor unit for display.
// Arithmetic must always be done on the unrounded calculation.
func (c *Calculation) Rounded() *Calculation {
	if c == nil {
		return nil
	}
	places := types.GetCurrencyPrecision(c.Currency)
	out := &Calculation{
		Available:  c.Available,
		BasePrice:  c.BasePrice.Round(places),
		TaxAmount:  c.TaxAmount.Round(places),
		TotalPrice: c.TotalPrice.Round(places),
		Currency:   c.Currency,
	}
	if c.RemainingAmount != nil {
		remaining := c.RemainingAmount.Round(places)
		out.RemainingAmount = &remaining
	}
	return out
}
