package service

import (
	"context"
	"sync"
	"time"

	"github.com/flexprice/adminconsole/internal/api/dto"
	"github.com/flexprice/adminconsole/internal/cache"
	"github.com/flexprice/adminconsole/internal/domain/assignment"
	"github.com/flexprice/adminconsole/internal/domain/plan"
	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/flexprice/adminconsole/internal/wizard"
)

// PlanWizardService owns the open wizards. Each wizard lives in a session
// that expires after the configured idle TTL.
type PlanWizardService interface {
	Open(ctx context.Context, req dto.OpenPlanWizardRequest) (*dto.PlanWizardResponse, error)
	Get(ctx context.Context, id string) (*dto.PlanWizardResponse, error)
	UpdateField(ctx context.Context, id string, req dto.UpdateWizardFieldRequest) (*dto.PlanWizardResponse, error)
	NextStep(ctx context.Context, id string) (*dto.PlanWizardResponse, error)
	PrevStep(ctx context.Context, id string) (*dto.PlanWizardResponse, error)
	ResetCustomPrice(ctx context.Context, id string) (*dto.PlanWizardResponse, error)
	AttachReceipt(ctx context.Context, id string, fileName string, data []byte) (*dto.PlanWizardResponse, error)
	Submit(ctx context.Context, id string) (*dto.SubmitPlanWizardResponse, error)
	Close(ctx context.Context, id string) error
}

// wizardSession is one open wizard. mu guards every field; it is never held
// across the outbound submit call.
type wizardSession struct {
	mu sync.Mutex

	id         string
	tenantID   string
	tenantName string
	mode       types.WizardMode
	wizard     *wizard.Wizard
	createdAt  time.Time
	touchedAt  time.Time

	// loading is set while a submit is outstanding
	loading     bool
	submitError string
	// closed is set once the wizard is closed or submitted; a closed
	// session is never written back to the cache
	closed bool
}

type planWizardService struct {
	ServiceParams
	now func() time.Time
}

// NewPlanWizardService creates the wizard service
func NewPlanWizardService(params ServiceParams) PlanWizardService {
	return &planWizardService{
		ServiceParams: params,
		now:           time.Now,
	}
}

func (s *planWizardService) Open(ctx context.Context, req dto.OpenPlanWizardRequest) (*dto.PlanWizardResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// assignments offer the public price list, extensions must also see the current plan
	filter := types.NewPlanFilter()
	if req.Mode == types.WizardModeAssign && s.Config.Catalog.PublicOnly {
		filter = types.NewPublicPlanFilter()
	}

	plans, err := s.PlanCatalog.ListPlans(ctx, filter)
	if err != nil {
		s.Logger.Errorw("failed to load plan catalog",
			"error", err,
			"tenant_id", req.TenantID,
			"mode", req.Mode)
		return nil, ierr.WithError(err).
			WithHint("The plan catalog could not be loaded, try again").
			Mark(ierr.ErrHTTPClient)
	}

	cfg := wizard.NewModeConfig(req.Mode, s.Config.Wizard)
	w, err := wizard.New(cfg, activePlans(plans, req.Seed), req.Seed, wizard.WithClock(s.now))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &wizardSession{
		id:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WIZARD_SESSION),
		tenantID:   req.TenantID,
		tenantName: req.TenantName,
		mode:       req.Mode,
		wizard:     w,
		createdAt:  now,
		touchedAt:  now,
	}
	s.Cache.Set(ctx, sessionKey(sess.id), sess, s.Config.Session.TTL)

	s.Logger.Infow("opened plan wizard",
		"wizard_id", sess.id,
		"tenant_id", sess.tenantID,
		"mode", sess.mode,
		"plans_count", len(w.Catalog()),
		"actor_id", types.GetUserID(ctx))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.toResponse(sess), nil
}

// activePlans hides archived and inactive plans, except the plan being extended
func activePlans(plans []*plan.Plan, seed *wizard.Seed) []*plan.Plan {
	out := make([]*plan.Plan, 0, len(plans))
	for _, p := range plans {
		if p == nil {
			continue
		}
		if p.Status == "" || p.Status == types.StatusActive || (seed != nil && seed.PlanID == p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func (s *planWizardService) Get(ctx context.Context, id string) (*dto.PlanWizardResponse, error) {
	return s.withSession(ctx, id, false, func(sess *wizardSession) error {
		return nil
	})
}

func (s *planWizardService) UpdateField(ctx context.Context, id string, req dto.UpdateWizardFieldRequest) (*dto.PlanWizardResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.withSession(ctx, id, true, func(sess *wizardSession) error {
		return sess.wizard.UpdateField(req.Field, req.Value)
	})
}

func (s *planWizardService) NextStep(ctx context.Context, id string) (*dto.PlanWizardResponse, error) {
	return s.withSession(ctx, id, true, func(sess *wizardSession) error {
		// a refusal is not an error, the field errors and hint explain it
		sess.wizard.NextStep()
		return nil
	})
}

func (s *planWizardService) PrevStep(ctx context.Context, id string) (*dto.PlanWizardResponse, error) {
	return s.withSession(ctx, id, true, func(sess *wizardSession) error {
		sess.wizard.PrevStep()
		return nil
	})
}

func (s *planWizardService) ResetCustomPrice(ctx context.Context, id string) (*dto.PlanWizardResponse, error) {
	return s.withSession(ctx, id, true, func(sess *wizardSession) error {
		sess.wizard.ResetCustomPrice()
		return nil
	})
}

// AttachReceipt validates a selected file. A rejected file never enters the
// state; the reason is shown in the receiptFile field error.
func (s *planWizardService) AttachReceipt(ctx context.Context, id string, fileName string, data []byte) (*dto.PlanWizardResponse, error) {
	return s.withSession(ctx, id, true, func(sess *wizardSession) error {
		if !sess.wizard.State().WithReceipt {
			return ierr.NewError("receipt is not enabled").
				WithHint("Enable the receipt before attaching a file").
				Mark(ierr.ErrInvalidOperation)
		}

		receipt, err := wizard.ValidateReceiptFile(fileName, data, sess.wizard.Config().ReceiptMaxBytes)
		if err != nil {
			s.Logger.Infow("rejected receipt file",
				"wizard_id", sess.id,
				"file_name", fileName,
				"size", len(data),
				"reason", ierr.DisplayMessage(err, ""))
			sess.wizard.RejectReceipt(err)
			return nil
		}

		sess.wizard.AttachReceipt(receipt)
		return nil
	})
}

func (s *planWizardService) Submit(ctx context.Context, id string) (*dto.SubmitPlanWizardResponse, error) {
	sess, err := s.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return nil, errNotFound(id)
	}
	if sess.loading {
		sess.mu.Unlock()
		return nil, errSubmitInProgress(id)
	}

	w := sess.wizard
	if w.CurrentStep() != wizard.TotalSteps {
		sess.mu.Unlock()
		return nil, ierr.NewErrorf("wizard is at step %d", w.CurrentStep()).
			WithHint("Complete every step before submitting").
			Mark(ierr.ErrInvalidOperation)
	}

	req, err := w.BuildRequest(sess.tenantID)
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	receipt := w.Receipt()
	mode := sess.mode
	tenantID := sess.tenantID
	sess.loading = true
	sess.submitError = ""
	sess.mu.Unlock()

	s.Logger.Infow("submitting plan wizard",
		"wizard_id", id,
		"tenant_id", tenantID,
		"plan_id", req.PlanID,
		"mode", mode,
		"with_receipt", receipt != nil)

	s.Sentry.AddBreadcrumb("plan_wizard", "submitting", map[string]interface{}{
		"wizard_id": id,
		"plan_id":   req.PlanID,
		"mode":      mode,
	})
	span, spanCtx := s.Sentry.StartHTTPClientSpan(ctx, "plan_wizard.submit", map[string]interface{}{
		"wizard_id": id,
		"mode":      mode,
	})
	result, err := s.send(spanCtx, mode, tenantID, req, receipt)
	s.Sentry.FinishSpan(span, err)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.loading = false

	if !s.isOpen(ctx, sess) {
		s.Logger.Warnw("ignoring plan wizard result, wizard was closed while submitting",
			"wizard_id", id,
			"tenant_id", tenantID,
			"success", err == nil)
		return nil, ierr.NewErrorf("plan wizard %s was closed while submitting", id).
			WithHint("The wizard was closed before the submission finished").
			Mark(ierr.ErrNotFound)
	}

	if err != nil {
		sess.submitError = submitErrorMessage(mode, err)
		s.Logger.Errorw("plan wizard submission failed",
			"error", err,
			"wizard_id", id,
			"tenant_id", tenantID,
			"mode", mode)
		s.Sentry.CaptureWithContext(ctx, err, map[string]string{
			"wizard_id": id,
			"mode":      mode.String(),
		})
		return nil, ierr.WithError(err).
			WithHint(sess.submitError).
			Mark(ierr.ErrUpstream)
	}

	sess.closed = true
	s.Cache.Delete(ctx, sessionKey(id))

	event := &types.PlanWizardEvent{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EVENT),
		EventName: eventNameFor(mode),
		TenantID:  tenantID,
		PlanID:    req.PlanID,
		Mode:      mode,
		ActorID:   types.GetUserID(ctx),
		Timestamp: s.now().UTC(),
		Data:      result.Data,
	}
	if err := s.EventPublisher.Publish(ctx, event); err != nil {
		// the plan is assigned; views will pick it up on their next load
		s.Logger.Errorw("failed to publish plan wizard event",
			"error", err,
			"wizard_id", id,
			"event_id", event.ID)
		event.ID = ""
	}

	s.Logger.Infow("plan wizard submitted",
		"wizard_id", id,
		"tenant_id", tenantID,
		"plan_id", req.PlanID,
		"mode", mode)

	return &dto.SubmitPlanWizardResponse{
		Success:  true,
		ID:       id,
		TenantID: tenantID,
		Mode:     mode,
		PlanID:   req.PlanID,
		EventID:  event.ID,
		Data:     result.Data,
	}, nil
}

func (s *planWizardService) send(ctx context.Context, mode types.WizardMode, tenantID string, req *assignment.PlanRequest, receipt *assignment.Receipt) (*assignment.Result, error) {
	if mode == types.WizardModeExtend {
		return s.AssignmentClient.ExtendPlan(ctx, tenantID, req, receipt)
	}
	return s.AssignmentClient.AssignPlan(ctx, tenantID, req, receipt)
}

func (s *planWizardService) Close(ctx context.Context, id string) error {
	sess, err := s.getSession(ctx, id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return errNotFound(id)
	}
	sess.closed = true
	loading := sess.loading
	s.Cache.Delete(ctx, sessionKey(id))
	sess.mu.Unlock()

	s.Logger.Infow("closed plan wizard",
		"wizard_id", id,
		"tenant_id", sess.tenantID,
		"submit_in_flight", loading)
	return nil
}

// withSession runs fn under the session lock and renders the result. Mutations
// are refused while a submit is outstanding.
func (s *planWizardService) withSession(ctx context.Context, id string, mutate bool, fn func(sess *wizardSession) error) (*dto.PlanWizardResponse, error) {
	sess, err := s.getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed {
		return nil, errNotFound(id)
	}
	if mutate && sess.loading {
		return nil, errSubmitInProgress(id)
	}

	if err := fn(sess); err != nil {
		return nil, err
	}

	sess.touchedAt = s.now().UTC()
	s.Cache.Set(ctx, sessionKey(id), sess, s.Config.Session.TTL)
	return s.toResponse(sess), nil
}

func (s *planWizardService) getSession(ctx context.Context, id string) (*wizardSession, error) {
	if types.IsBlank(id) {
		return nil, ierr.NewError("wizard id is required").
			WithHint("Wizard ID is required").
			Mark(ierr.ErrValidation)
	}

	value, ok := s.Cache.Get(ctx, sessionKey(id))
	if !ok {
		return nil, errNotFound(id)
	}

	sess, ok := value.(*wizardSession)
	if !ok {
		return nil, ierr.NewErrorf("unexpected session type %T", value).
			Mark(ierr.ErrSystem)
	}
	return sess, nil
}

// isOpen reports whether sess is still the live session for its id. It must
// be called with sess.mu held.
func (s *planWizardService) isOpen(ctx context.Context, sess *wizardSession) bool {
	if sess.closed {
		return false
	}
	value, ok := s.Cache.Get(ctx, sessionKey(sess.id))
	return ok && value == sess
}

// toResponse must be called with sess.mu held
func (s *planWizardService) toResponse(sess *wizardSession) *dto.PlanWizardResponse {
	w := sess.wizard
	state := w.State()

	return &dto.PlanWizardResponse{
		ID:          sess.id,
		TenantID:    sess.tenantID,
		TenantName:  sess.tenantName,
		Mode:        sess.mode,
		CurrentStep: state.CurrentStep,
		TotalSteps:  wizard.TotalSteps,
		StepKind:    w.StepKind(),
		PlanLocked:  w.Config().PlanReadOnly(),
		CanAdvance:  !sess.loading && w.CanAdvance(),
		Hint:        w.Hint(),
		Loading:     sess.loading,
		SubmitError: sess.submitError,
		State:       state,
		Errors:      state.Errors,
		Pricing:     dto.NewPricingResponse(w.Pricing()),
		Plans:       w.Catalog(),
		CreatedAt:   sess.createdAt,
		ExpiresAt:   sess.touchedAt.Add(s.Config.Session.TTL),
	}
}

func sessionKey(id string) string {
	return cache.GenerateKey(cache.PrefixWizardSession, id)
}

func errNotFound(id string) error {
	return ierr.NewErrorf("plan wizard %s not found", id).
		WithHint("The wizard has expired or was closed, open it again").
		WithReportableDetails(map[string]any{
			"wizard_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func errSubmitInProgress(id string) error {
	return ierr.NewErrorf("plan wizard %s is already submitting", id).
		WithHint("A submission is already in progress").
		Mark(ierr.ErrInProgress)
}

func eventNameFor(mode types.WizardMode) string {
	if mode == types.WizardModeExtend {
		return types.EventTenantPlanExtended
	}
	return types.EventTenantPlanAssigned
}

// submitErrorMessage is the collaborator's own message when it sent one
func submitErrorMessage(mode types.WizardMode, err error) string {
	if msg := assignment.MessageFrom(err); msg != "" {
		return msg
	}
	if mode == types.WizardModeExtend {
		return "The plan could not be extended, try again"
	}
	return "The plan could not be assigned, try again"
}
