package wizard

import (
	"time"

	"github.com/flexprice/adminconsole/internal/domain/assignment"
	"github.com/flexprice/adminconsole/internal/domain/plan"
	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/flexprice/adminconsole/internal/pricing"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/shopspring/decimal"
)

// Wizard drives one assignment or extension. It is not safe for concurrent
// use; the owning session serializes access.
type Wizard struct {
	cfg     ModeConfig
	catalog []*plan.Plan
	now     func() time.Time
	state   *FormState
}

// Option customises a Wizard
type Option func(*Wizard)

// WithClock replaces time.Now, used to derive MONTHLY/YEARLY periods
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		w.now = now
	}
}

// New opens a wizard over a plan catalog. Extensions require a seed whose
// plan is in the catalog.
func New(cfg ModeConfig, catalog []*plan.Plan, seed *Seed, opts ...Option) (*Wizard, error) {
	if err := cfg.Mode.Validate(); err != nil {
		return nil, err
	}

	w := &Wizard{
		cfg:     cfg,
		catalog: catalog,
		now:     time.Now,
		state:   newFormState(cfg.DefaultTaxRate),
	}
	for _, opt := range opts {
		opt(w)
	}

	if cfg.PlanReadOnly() && (seed == nil || types.IsBlank(seed.PlanID)) {
		return nil, ierr.NewError("extension requires the current plan").
			WithHint("The plan being extended is required").
			Mark(ierr.ErrValidation)
	}

	if seed != nil {
		if err := w.applySeed(seed); err != nil {
			return nil, err
		}
	}

	return w, nil
}

func (w *Wizard) applySeed(seed *Seed) error {
	s := w.state

	if seed.PlanID != "" {
		selected := plan.FindByID(w.catalog, seed.PlanID)
		if selected == nil {
			return ierr.NewErrorf("plan %s not found in catalog", seed.PlanID).
				WithHint("The current plan of this tenant is no longer in the catalog").
				WithReportableDetails(map[string]any{
					"plan_id": seed.PlanID,
				}).
				Mark(ierr.ErrNotFound)
		}
		s.SelectedPlanID = selected.ID
		s.SelectedPlan = selected
	}

	if seed.InvoiceType != "" {
		if err := seed.InvoiceType.Validate(); err != nil {
			return err
		}
		s.InvoiceType = seed.InvoiceType
	}

	if seed.BillingMethod != "" {
		if err := seed.BillingMethod.Validate(); err != nil {
			return err
		}
		w.setBillingMethod(seed.BillingMethod)
	}

	if seed.TaxRate != nil {
		if err := validateTaxRate(*seed.TaxRate); err != nil {
			return err
		}
		s.TaxRate = *seed.TaxRate
	}

	s.AutoRenewalEnabled = seed.AutoRenewalEnabled

	if seed.ManualGracePeriod != nil {
		s.IsAutoGracePeriod = false
		s.IsManualGracePeriod = true
		s.ManualGracePeriod = seed.ManualGracePeriod
	}
	return nil
}

// Config returns the mode configuration
func (w *Wizard) Config() ModeConfig {
	return w.cfg
}

// Catalog returns the plans offered by this wizard
func (w *Wizard) Catalog() []*plan.Plan {
	return w.catalog
}

// State returns a snapshot of the form state
func (w *Wizard) State() *FormState {
	return w.state.Clone()
}

// CurrentStep returns the 1-based active step
func (w *Wizard) CurrentStep() int {
	return w.state.CurrentStep
}

// StepKind returns what the active step asks for
func (w *Wizard) StepKind() StepKind {
	return w.cfg.StepKindAt(w.state.CurrentStep)
}

// Pricing recomputes the derived pricing from the current answers
func (w *Wizard) Pricing() *pricing.Calculation {
	return Price(w.cfg, w.state)
}

// CanAdvance reports whether Next (or Submit on the last step) is allowed
func (w *Wizard) CanAdvance() bool {
	return CanAdvance(w.cfg, w.state, w.Pricing())
}

// Hint explains why the active step can not advance yet
func (w *Wizard) Hint() string {
	return Hint(w.cfg, w.state, w.Pricing())
}

// NextStep advances by one when the step being left is complete. On refusal
// the step's messages are recorded in the field errors.
func (w *Wizard) NextStep() bool {
	s := w.state
	if s.CurrentStep >= TotalSteps {
		return false
	}

	errs := ValidateStep(w.cfg, s, s.CurrentStep, w.Pricing())
	if len(errs) > 0 {
		s.Errors.merge(errs)
		return false
	}

	s.CurrentStep++
	return true
}

// PrevStep goes back one step, never below the first
func (w *Wizard) PrevStep() bool {
	if w.state.CurrentStep <= FirstStep {
		return false
	}
	w.state.CurrentStep--
	return true
}

// ResetCustomPrice drops the override and falls back to the list price
func (w *Wizard) ResetCustomPrice() {
	w.state.CustomPrice = nil
	delete(w.state.Errors, FieldCustomPrice)
}

// AttachReceipt stores a receipt that already passed ValidateReceiptFile
func (w *Wizard) AttachReceipt(receipt *assignment.Receipt) {
	w.state.ReceiptFile = receipt
	delete(w.state.Errors, FieldReceiptFile)
}

// RejectReceipt records why a selected file was refused
func (w *Wizard) RejectReceipt(err error) {
	w.state.Errors[FieldReceiptFile] = ierr.DisplayMessage(err, "The receipt file was rejected")
}

// Receipt returns the attached receipt, if any
func (w *Wizard) Receipt() *assignment.Receipt {
	if !w.state.WithReceipt {
		return nil
	}
	return w.state.ReceiptFile
}

// FirstInvalidStep returns the first incomplete step, 0 when all are complete
func (w *Wizard) FirstInvalidStep() int {
	return FirstInvalidStep(w.cfg, w.state, w.Pricing())
}

// BuildRequest serializes the answers for the plan-assignment API
func (w *Wizard) BuildRequest(tenantID string) (*assignment.PlanRequest, error) {
	return BuildRequest(w.cfg, tenantID, w.state, w.Pricing())
}

func validateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return ierr.NewErrorf("tax rate %s out of range", rate.String()).
			WithHint("The tax rate must be a fraction between 0 and 1").
			Mark(ierr.ErrValidation)
	}
	return nil
}
