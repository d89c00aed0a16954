package plan

import (
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/shopspring/decimal"
)

// Plan is a subscription tier as published by the plan catalog.
// The wizard never mutates it.
type Plan struct {
	ID                     string          `json:"id"`
	Name                   string          `json:"name"`
	Description            string          `json:"description,omitempty"`
	MonthlyPrice           decimal.Decimal `json:"monthly_price"`
	YearlyPrice            decimal.Decimal `json:"yearly_price"`
	Currency               string          `json:"currency"`
	MaxUsers               int             `json:"max_users"`
	MaxHelpers             int             `json:"max_helpers"`
	MaxStorageMB           int64           `json:"max_storage_mb"`
	DefaultGracePeriodDays int             `json:"default_grace_period_days"`
	IsPublic               bool            `json:"is_public"`
	Status                 types.Status    `json:"status,omitempty"`
}

// PriceFor returns the list price for a billing method. CUSTOM has no list
// price, so ok is false for it.
func (p *Plan) PriceFor(method types.BillingMethod) (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Zero, false
	}
	switch method {
	case types.BillingMethodMonthly:
		return p.MonthlyPrice, true
	case types.BillingMethodYearly:
		return p.YearlyPrice, true
	default:
		return decimal.Zero, false
	}
}

// FindByID returns the plan with the given id from a catalog listing
func FindByID(plans []*Plan, id string) *Plan {
	for _, p := range plans {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}
