package pricing

import (
	"testing"

	"github.com/flexprice/adminconsole/internal/domain/plan"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CalculatorSuite struct {
	suite.Suite
	plan *plan.Plan
	tax  decimal.Decimal
}

func TestCalculator(t *testing.T) {
	suite.Run(t, new(CalculatorSuite))
}

func (s *CalculatorSuite) SetupTest() {
	s.plan = &plan.Plan{
		ID:           "plan_basic",
		Name:         "Basic",
		MonthlyPrice: decimal.NewFromInt(1000),
		YearlyPrice:  decimal.NewFromInt(10000),
		Currency:     "MAD",
	}
	s.tax = decimal.NewFromFloat(0.20)
}

func (s *CalculatorSuite) TestListPrice() {
	tests := []struct {
		name   string
		method types.BillingMethod
		base   int64
		tax    int64
		total  int64
	}{
		{name: "monthly", method: types.BillingMethodMonthly, base: 1000, tax: 200, total: 1200},
		{name: "yearly", method: types.BillingMethodYearly, base: 10000, tax: 2000, total: 12000},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			calc := Calculate(Input{Plan: s.plan, BillingMethod: tt.method, TaxRate: s.tax})
			s.True(calc.Available)
			s.True(calc.BasePrice.Equal(decimal.NewFromInt(tt.base)))
			s.True(calc.TaxAmount.Equal(decimal.NewFromInt(tt.tax)))
			s.True(calc.TotalPrice.Equal(decimal.NewFromInt(tt.total)))
			s.Equal("MAD", calc.Currency)
			s.Nil(calc.RemainingAmount)
		})
	}
}

func (s *CalculatorSuite) TestCustomPriceOverridesListPrice() {
	calc := Calculate(Input{
		Plan:          s.plan,
		BillingMethod: types.BillingMethodMonthly,
		CustomPrice:   lo.ToPtr(decimal.NewFromInt(800)),
		TaxRate:       s.tax,
	})
	s.True(calc.Available)
	s.True(calc.BasePrice.Equal(decimal.NewFromInt(800)))
	s.True(calc.TotalPrice.Equal(decimal.NewFromInt(960)))
}

func (s *CalculatorSuite) TestCustomBillingNeedsCustomPrice() {
	calc := Calculate(Input{Plan: s.plan, BillingMethod: types.BillingMethodCustom, TaxRate: s.tax})
	s.False(calc.Available)
	s.True(calc.TotalPrice.IsZero())

	calc = Calculate(Input{
		Plan:          s.plan,
		BillingMethod: types.BillingMethodCustom,
		CustomPrice:   lo.ToPtr(decimal.NewFromInt(5000)),
		TaxRate:       s.tax,
	})
	s.True(calc.Available)
	s.True(calc.BasePrice.Equal(decimal.NewFromInt(5000)))
}

func (s *CalculatorSuite) TestNoPlanNoMethod() {
	calc := Calculate(Input{TaxRate: s.tax, DefaultCurrency: "MAD"})
	s.False(calc.Available)
	s.Equal("MAD", calc.Currency)
}

func (s *CalculatorSuite) TestTotalIsBasePlusTax() {
	rates := []string{"0", "0.07", "0.2", "0.333", "1"}
	prices := []string{"0.01", "19.99", "1000", "123456.789"}

	for _, r := range rates {
		for _, p := range prices {
			rate := decimal.RequireFromString(r)
			price := decimal.RequireFromString(p)
			calc := Calculate(Input{
				Plan:          s.plan,
				BillingMethod: types.BillingMethodMonthly,
				CustomPrice:   &price,
				TaxRate:       rate,
			})
			s.True(calc.TaxAmount.Equal(price.Mul(rate)), "tax for %s at %s", p, r)
			s.True(calc.TotalPrice.Equal(calc.BasePrice.Add(calc.TaxAmount)), "total for %s at %s", p, r)
			s.False(calc.TotalPrice.IsNegative())
		}
	}
}

func (s *CalculatorSuite) TestRemainingAmount() {
	tests := []struct {
		name      string
		paid      int64
		remaining int64
	}{
		{name: "partial", paid: 500, remaining: 700},
		{name: "exact", paid: 1200, remaining: 0},
		{name: "overpaid is clamped", paid: 1500, remaining: 0},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			calc := Calculate(Input{
				Plan:          s.plan,
				BillingMethod: types.BillingMethodMonthly,
				TaxRate:       s.tax,
				PaidAmount:    lo.ToPtr(decimal.NewFromInt(tt.paid)),
			})
			s.Require().NotNil(calc.RemainingAmount)
			s.True(calc.RemainingAmount.Equal(decimal.NewFromInt(tt.remaining)))
		})
	}
}

func (s *CalculatorSuite) TestCovers() {
	calc := Calculate(Input{Plan: s.plan, BillingMethod: types.BillingMethodMonthly, TaxRate: s.tax})
	s.True(calc.Covers(lo.ToPtr(decimal.NewFromInt(1200))))
	s.True(calc.Covers(lo.ToPtr(decimal.NewFromInt(2000))))
	s.False(calc.Covers(lo.ToPtr(decimal.NewFromInt(1199))))
	s.False(calc.Covers(nil))

	unavailable := Calculate(Input{BillingMethod: types.BillingMethodCustom, TaxRate: s.tax})
	s.False(unavailable.Covers(lo.ToPtr(decimal.NewFromInt(0))))

	var nilCalc *Calculation
	s.False(nilCalc.Covers(lo.ToPtr(decimal.NewFromInt(1))))
}

func (s *CalculatorSuite) TestRounded() {
	calc := Calculate(Input{
		Plan:          s.plan,
		BillingMethod: types.BillingMethodMonthly,
		CustomPrice:   lo.ToPtr(decimal.RequireFromString("19.999")),
		TaxRate:       s.tax,
	})
	rounded := calc.Rounded()
	s.Equal("20", rounded.BasePrice.String())
	s.Equal("4", rounded.TaxAmount.String())
	s.Equal("24", rounded.TotalPrice.String())
	// the source calculation keeps full precision
	s.Equal("19.999", calc.BasePrice.String())
}
