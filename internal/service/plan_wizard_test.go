package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/flexprice/adminconsole/internal/api/dto"
	"github.com/flexprice/adminconsole/internal/cache"
	"github.com/flexprice/adminconsole/internal/config"
	"github.com/flexprice/adminconsole/internal/domain/assignment"
	"github.com/flexprice/adminconsole/internal/domain/plan"
	ierr "github.com/flexprice/adminconsole/internal/errors"
	"github.com/flexprice/adminconsole/internal/logger"
	"github.com/flexprice/adminconsole/internal/sentry"
	"github.com/flexprice/adminconsole/internal/testutil"
	"github.com/flexprice/adminconsole/internal/types"
	"github.com/flexprice/adminconsole/internal/validator"
	"github.com/flexprice/adminconsole/internal/wizard"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var pdfReceipt = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj\n")

type PlanWizardServiceSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	catalog   *testutil.InMemoryPlanCatalog
	client    *testutil.InMemoryAssignmentClient
	publisher *testutil.InMemoryPublisherService
	service   *planWizardService
}

func TestPlanWizardService(t *testing.T) {
	suite.Run(t, new(PlanWizardServiceSuite))
}

func (s *PlanWizardServiceSuite) SetupSuite() {
	validator.NewValidator()
}

func (s *PlanWizardServiceSuite) SetupTest() {
	s.ctx = testutil.SetupContext()
	s.now = time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC)

	s.catalog = testutil.NewInMemoryPlanCatalog(
		&plan.Plan{
			ID:           "plan_basic",
			Name:         "Basic",
			MonthlyPrice: decimal.NewFromInt(1000),
			YearlyPrice:  decimal.NewFromInt(10000),
			Currency:     "MAD",
			IsPublic:     true,
			Status:       types.StatusActive,
		},
		&plan.Plan{
			ID:           "plan_pro",
			Name:         "Pro",
			MonthlyPrice: decimal.NewFromInt(2500),
			YearlyPrice:  decimal.NewFromInt(25000),
			Currency:     "MAD",
			Status:       types.StatusActive,
		},
		&plan.Plan{
			ID:           "plan_legacy",
			Name:         "Legacy",
			MonthlyPrice: decimal.NewFromInt(500),
			YearlyPrice:  decimal.NewFromInt(5000),
			Currency:     "MAD",
			Status:       types.StatusArchived,
		},
	)
	s.client = testutil.NewInMemoryAssignmentClient()
	s.publisher = testutil.NewInMemoryEventPublisher()

	cfg := config.GetDefaultConfig()
	log := logger.NewNopLogger()
	params := NewServiceParams(
		log,
		cfg,
		cache.NewInMemoryCache(cfg, log),
		s.catalog,
		s.client,
		s.publisher,
		sentry.NewSentryService(cfg, log),
	)

	s.service = NewPlanWizardService(params).(*planWizardService)
	s.service.now = func() time.Time { return s.now }
}

func (s *PlanWizardServiceSuite) openAssign() *dto.PlanWizardResponse {
	resp, err := s.service.Open(s.ctx, dto.OpenPlanWizardRequest{
		TenantID:   "tenant_1",
		TenantName: "Acme",
		Mode:       types.WizardModeAssign,
	})
	s.Require().NoError(err)
	return resp
}

func (s *PlanWizardServiceSuite) update(id string, field wizard.Field, value any) *dto.PlanWizardResponse {
	resp, err := s.service.UpdateField(s.ctx, id, dto.UpdateWizardFieldRequest{Field: field, Value: value})
	s.Require().NoError(err, "field %s", field)
	return resp
}

func (s *PlanWizardServiceSuite) next(id string) *dto.PlanWizardResponse {
	resp, err := s.service.NextStep(s.ctx, id)
	s.Require().NoError(err)
	return resp
}

// toConfirmation walks a STANDARD MONTHLY assignment of plan_basic to the last step
func (s *PlanWizardServiceSuite) toConfirmation(id string) {
	s.update(id, wizard.FieldSelectedPlanID, "plan_basic")
	s.next(id)
	s.next(id)
	s.update(id, wizard.FieldBillingMethod, "MONTHLY")
	s.next(id)
	s.update(id, wizard.FieldDueDate, "2024-02-15")
	resp := s.next(id)
	s.Require().Equal(wizard.TotalSteps, resp.CurrentStep, resp.Hint)
}

// holdSubmissions blocks the assignment client until the returned release is
// called; started is signalled once a call is in flight
func (s *PlanWizardServiceSuite) holdSubmissions() (started chan struct{}, release func()) {
	started = make(chan struct{}, 1)
	gate := make(chan struct{})
	s.client.OnCall(func(ctx context.Context) {
		started <- struct{}{}
		<-gate
	})
	return started, func() { close(gate) }
}

type submitOutcome struct {
	resp *dto.SubmitPlanWizardResponse
	err  error
}

func (s *PlanWizardServiceSuite) submitAsync(id string) chan submitOutcome {
	done := make(chan submitOutcome, 1)
	go func() {
		resp, err := s.service.Submit(s.ctx, id)
		done <- submitOutcome{resp: resp, err: err}
	}()
	return done
}

func (s *PlanWizardServiceSuite) wait(ch chan struct{}) {
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for the submission")
	}
}

func (s *PlanWizardServiceSuite) outcome(done chan submitOutcome) submitOutcome {
	select {
	case out := <-done:
		return out
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for the submission result")
	}
	return submitOutcome{}
}

func (s *PlanWizardServiceSuite) TestOpenAssign() {
	resp := s.openAssign()

	s.NotEmpty(resp.ID)
	s.Equal("tenant_1", resp.TenantID)
	s.Equal("Acme", resp.TenantName)
	s.Equal(wizard.FirstStep, resp.CurrentStep)
	s.Equal(wizard.TotalSteps, resp.TotalSteps)
	s.False(resp.PlanLocked)
	s.False(resp.Loading)
	s.False(resp.CanAdvance)
	s.Equal(s.now.Add(30*time.Minute), resp.ExpiresAt)

	ids := make([]string, 0, len(resp.Plans))
	for _, p := range resp.Plans {
		ids = append(ids, p.ID)
	}
	s.Equal([]string{"plan_basic", "plan_pro"}, ids)
	s.Equal(1, s.catalog.Calls())
}

func (s *PlanWizardServiceSuite) TestOpenExtendKeepsCurrentPlan() {
	resp, err := s.service.Open(s.ctx, dto.OpenPlanWizardRequest{
		TenantID:   "tenant_1",
		TenantName: "Acme",
		Mode:       types.WizardModeExtend,
		Seed: &wizard.Seed{
			PlanID:        "plan_legacy",
			BillingMethod: types.BillingMethodYearly,
		},
	})
	s.Require().NoError(err)

	s.True(resp.PlanLocked)
	s.Equal("plan_legacy", resp.State.SelectedPlanID)
	s.Require().NotNil(resp.State.SelectedPlan)
	s.Equal("Legacy", resp.State.SelectedPlan.Name)
	s.Len(resp.Plans, 3)
}

func (s *PlanWizardServiceSuite) TestOpenValidation() {
	tests := []struct {
		name string
		req  dto.OpenPlanWizardRequest
	}{
		{
			name: "missing tenant",
			req:  dto.OpenPlanWizardRequest{TenantName: "Acme", Mode: types.WizardModeAssign},
		},
		{
			name: "missing tenant name",
			req:  dto.OpenPlanWizardRequest{TenantID: "tenant_1", Mode: types.WizardModeAssign},
		},
		{
			name: "unknown mode",
			req:  dto.OpenPlanWizardRequest{TenantID: "tenant_1", TenantName: "Acme", Mode: "RENEW"},
		},
		{
			name: "extend without seed",
			req:  dto.OpenPlanWizardRequest{TenantID: "tenant_1", TenantName: "Acme", Mode: types.WizardModeExtend},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Open(s.ctx, tt.req)
			s.Error(err)
			s.True(ierr.IsValidation(err), "got %v", err)
		})
	}
	s.Zero(s.catalog.Calls())
}

func (s *PlanWizardServiceSuite) TestOpenCatalogFailure() {
	s.catalog.FailWith(errors.New("connection refused"))

	_, err := s.service.Open(s.ctx, dto.OpenPlanWizardRequest{
		TenantID:   "tenant_1",
		TenantName: "Acme",
		Mode:       types.WizardModeAssign,
	})
	s.Error(err)
	s.True(ierr.IsHTTPClient(err))
	s.Equal("The plan catalog could not be loaded, try again", ierr.DisplayMessage(err, ""))
}

func (s *PlanWizardServiceSuite) TestUnknownWizard() {
	_, err := s.service.Get(s.ctx, "wiz_missing")
	s.True(ierr.IsNotFound(err))

	_, err = s.service.NextStep(s.ctx, "")
	s.True(ierr.IsValidation(err))

	s.True(ierr.IsNotFound(s.service.Close(s.ctx, "wiz_missing")))
}

func (s *PlanWizardServiceSuite) TestNavigation() {
	id := s.openAssign().ID

	resp := s.next(id)
	s.Equal(wizard.FirstStep, resp.CurrentStep)
	s.Contains(resp.Errors, wizard.FieldSelectedPlanID)
	s.NotEmpty(resp.Hint)

	resp = s.update(id, wizard.FieldSelectedPlanID, "plan_pro")
	s.NotContains(resp.Errors, wizard.FieldSelectedPlanID)
	s.True(resp.CanAdvance)

	resp = s.next(id)
	s.Equal(2, resp.CurrentStep)

	resp, err := s.service.PrevStep(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(wizard.FirstStep, resp.CurrentStep)

	resp, err = s.service.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("plan_pro", resp.State.SelectedPlanID)
}

func (s *PlanWizardServiceSuite) TestUpdateRejectsUnknownField() {
	id := s.openAssign().ID

	_, err := s.service.UpdateField(s.ctx, id, dto.UpdateWizardFieldRequest{Field: "discount", Value: 10})
	s.True(ierr.IsValidation(err))
}

func (s *PlanWizardServiceSuite) TestPricingFollowsAnswers() {
	id := s.openAssign().ID
	s.update(id, wizard.FieldSelectedPlanID, "plan_basic")
	resp := s.update(id, wizard.FieldBillingMethod, "MONTHLY")

	s.Require().NotNil(resp.Pricing)
	s.True(resp.Pricing.Available)
	s.Equal("1000", resp.Pricing.BasePrice.String())
	s.Equal("1200", resp.Pricing.TotalPrice.String())

	resp = s.update(id, wizard.FieldCustomPrice, 800)
	s.Equal("960", resp.Pricing.TotalPrice.String())

	resp, err := s.service.ResetCustomPrice(s.ctx, id)
	s.Require().NoError(err)
	s.Nil(resp.State.CustomPrice)
	s.Equal("1200", resp.Pricing.TotalPrice.String())
}

func (s *PlanWizardServiceSuite) TestAttachReceipt() {
	id := s.openAssign().ID

	_, err := s.service.AttachReceipt(s.ctx, id, "receipt.pdf", pdfReceipt)
	s.True(ierr.IsInvalidOperation(err))

	s.update(id, wizard.FieldWithReceipt, true)

	resp, err := s.service.AttachReceipt(s.ctx, id, "receipt.gif", []byte("GIF89a\x01\x00\x01\x00"))
	s.Require().NoError(err)
	s.Nil(resp.State.ReceiptFile)
	s.Contains(resp.Errors, wizard.FieldReceiptFile)

	resp, err = s.service.AttachReceipt(s.ctx, id, "receipt.pdf", pdfReceipt)
	s.Require().NoError(err)
	s.Require().NotNil(resp.State.ReceiptFile)
	s.Equal("receipt.pdf", resp.State.ReceiptFile.FileName)
	s.Equal("application/pdf", resp.State.ReceiptFile.ContentType)
	s.NotContains(resp.Errors, wizard.FieldReceiptFile)

	resp = s.update(id, wizard.FieldWithReceipt, false)
	s.Nil(resp.State.ReceiptFile)
}

func (s *PlanWizardServiceSuite) TestSubmitAssign() {
	id := s.openAssign().ID
	s.toConfirmation(id)
	s.client.RespondWith(&assignment.Result{Success: true, Data: map[string]any{"subscription_id": "sub_1"}}, nil)

	resp, err := s.service.Submit(s.ctx, id)
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal("plan_basic", resp.PlanID)
	s.Equal(types.WizardModeAssign, resp.Mode)
	s.Equal("sub_1", resp.Data["subscription_id"])

	calls := s.client.Calls()
	s.Require().Len(calls, 1)
	s.Equal(types.WizardModeAssign, calls[0].Mode)
	s.Equal("tenant_1", calls[0].TenantID)
	s.Equal("plan_basic", calls[0].Request.PlanID)
	s.Equal(types.BillingMethodMonthly, calls[0].Request.BillingMethod)
	s.Nil(calls[0].Receipt)

	events := s.publisher.GetEvents()
	s.Require().Len(events, 1)
	s.Equal(resp.EventID, events[0].ID)
	s.Equal(types.EventTenantPlanAssigned, events[0].EventName)
	s.Equal("tenant_1", events[0].TenantID)
	s.Equal(types.DefaultUserID, events[0].ActorID)

	// a successful submission closes the wizard
	_, err = s.service.Get(s.ctx, id)
	s.True(ierr.IsNotFound(err))
}

func (s *PlanWizardServiceSuite) TestSubmitRecordsActingAdmin() {
	id := s.openAssign().ID
	s.toConfirmation(id)

	_, err := s.service.Submit(testutil.SetupContextForUser("admin_42"), id)
	s.Require().NoError(err)

	events := s.publisher.GetEvents()
	s.Require().Len(events, 1)
	s.Equal("admin_42", events[0].ActorID)
}

func (s *PlanWizardServiceSuite) TestSubmitExtend() {
	resp, err := s.service.Open(s.ctx, dto.OpenPlanWizardRequest{
		TenantID:   "tenant_1",
		TenantName: "Acme",
		Mode:       types.WizardModeExtend,
		Seed: &wizard.Seed{
			PlanID:             "plan_basic",
			BillingMethod:      types.BillingMethodMonthly,
			AutoRenewalEnabled: true,
		},
	})
	s.Require().NoError(err)
	id := resp.ID

	s.next(id)
	s.next(id)
	s.next(id)
	s.update(id, wizard.FieldDueDate, "2024-03-01")
	s.Require().Equal(wizard.TotalSteps, s.next(id).CurrentStep)

	_, err = s.service.Submit(s.ctx, id)
	s.Require().NoError(err)

	calls := s.client.Calls()
	s.Require().Len(calls, 1)
	s.Equal(types.WizardModeExtend, calls[0].Mode)
	s.True(calls[0].Request.AutoRenewalEnabled)

	events := s.publisher.GetEvents()
	s.Require().Len(events, 1)
	s.Equal(types.EventTenantPlanExtended, events[0].EventName)
}

func (s *PlanWizardServiceSuite) TestSubmitRequiresLastStep() {
	id := s.openAssign().ID
	s.update(id, wizard.FieldSelectedPlanID, "plan_basic")

	_, err := s.service.Submit(s.ctx, id)
	s.True(ierr.IsInvalidOperation(err))
	s.Empty(s.client.Calls())
}

func (s *PlanWizardServiceSuite) TestSubmitFailureShowsCollaboratorMessage() {
	id := s.openAssign().ID
	s.toConfirmation(id)
	s.client.RespondWith(nil, assignment.NewAPIError(409, "Tenant already has an active plan"))

	_, err := s.service.Submit(s.ctx, id)
	s.Error(err)
	s.True(ierr.IsUpstream(err))
	s.Equal("Tenant already has an active plan", ierr.DisplayMessage(err, ""))

	resp, err := s.service.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Tenant already has an active plan", resp.SubmitError)
	s.Equal(wizard.TotalSteps, resp.CurrentStep)
	s.False(resp.Loading)
	s.True(resp.CanAdvance)
	s.Empty(s.publisher.GetEvents())

	// the admin may retry once the cause is fixed
	s.client.RespondWith(&assignment.Result{Success: true}, nil)
	_, err = s.service.Submit(s.ctx, id)
	s.NoError(err)
	s.Len(s.client.Calls(), 2)
}

func (s *PlanWizardServiceSuite) TestSubmitFailureWithoutMessage() {
	id := s.openAssign().ID
	s.toConfirmation(id)
	s.client.RespondWith(nil, errors.New("connection reset"))

	_, err := s.service.Submit(s.ctx, id)
	s.Error(err)
	s.Equal("The plan could not be assigned, try again", ierr.DisplayMessage(err, ""))

	resp, err := s.service.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("The plan could not be assigned, try again", resp.SubmitError)
}

func (s *PlanWizardServiceSuite) TestSubmitIsNotReentrant() {
	id := s.openAssign().ID
	s.toConfirmation(id)
	started, release := s.holdSubmissions()

	done := s.submitAsync(id)
	s.wait(started)

	_, err := s.service.Submit(s.ctx, id)
	s.True(ierr.IsInProgress(err))

	_, err = s.service.UpdateField(s.ctx, id, dto.UpdateWizardFieldRequest{Field: wizard.FieldTaxRate, Value: 0.1})
	s.True(ierr.IsInProgress(err))

	_, err = s.service.PrevStep(s.ctx, id)
	s.True(ierr.IsInProgress(err))

	resp, err := s.service.Get(s.ctx, id)
	s.Require().NoError(err)
	s.True(resp.Loading)
	s.False(resp.CanAdvance)

	release()
	out := s.outcome(done)
	s.Require().NoError(out.err)
	s.True(out.resp.Success)
	s.Len(s.client.Calls(), 1)
}

func (s *PlanWizardServiceSuite) TestCloseDuringSubmitIgnoresResult() {
	id := s.openAssign().ID
	s.toConfirmation(id)
	started, release := s.holdSubmissions()

	done := s.submitAsync(id)
	s.wait(started)

	s.Require().NoError(s.service.Close(s.ctx, id))
	release()

	out := s.outcome(done)
	s.Error(out.err)
	s.True(ierr.IsNotFound(out.err))
	s.Empty(s.publisher.GetEvents())

	_, err := s.service.Get(s.ctx, id)
	s.True(ierr.IsNotFound(err))
}

func (s *PlanWizardServiceSuite) TestPublishFailureKeepsSubmission() {
	id := s.openAssign().ID
	s.toConfirmation(id)
	s.publisher.FailWith(errors.New("broker down"))

	resp, err := s.service.Submit(s.ctx, id)
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Empty(resp.EventID)
}

// slowReadCache pauses the next Get after it has read its value, until release
// is closed
type slowReadCache struct {
	cache.Cache
	mu      sync.Mutex
	paused  chan struct{}
	release chan struct{}
}

func (c *slowReadCache) pauseNextGet() (paused chan struct{}, release func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = make(chan struct{})
	c.release = make(chan struct{})
	gate := c.release
	return c.paused, func() { close(gate) }
}

func (c *slowReadCache) Get(ctx context.Context, key string) (interface{}, bool) {
	value, ok := c.Cache.Get(ctx, key)

	c.mu.Lock()
	paused, release := c.paused, c.release
	c.paused, c.release = nil, nil
	c.mu.Unlock()

	if paused != nil {
		close(paused)
		<-release
	}
	return value, ok
}

type readOutcome struct {
	resp *dto.PlanWizardResponse
	err  error
}

// staleRead starts a Get of id that has loaded the session and waits for
// release before rendering it
func (s *PlanWizardServiceSuite) staleRead(id string) (done chan readOutcome, release func()) {
	slow := &slowReadCache{Cache: s.service.Cache}
	s.service.Cache = slow
	paused, release := slow.pauseNextGet()

	done = make(chan readOutcome, 1)
	go func() {
		resp, err := s.service.Get(s.ctx, id)
		done <- readOutcome{resp: resp, err: err}
	}()
	s.wait(paused)
	return done, release
}

func (s *PlanWizardServiceSuite) readResult(done chan readOutcome) readOutcome {
	select {
	case out := <-done:
		return out
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for the read")
	}
	return readOutcome{}
}

func (s *PlanWizardServiceSuite) TestReadDuringSubmitDoesNotReopenWizard() {
	id := s.openAssign().ID
	s.toConfirmation(id)

	done, release := s.staleRead(id)

	resp, err := s.service.Submit(s.ctx, id)
	s.Require().NoError(err)
	s.True(resp.Success)

	release()
	out := s.readResult(done)
	s.True(ierr.IsNotFound(out.err), "got %v", out.err)

	_, err = s.service.Get(s.ctx, id)
	s.True(ierr.IsNotFound(err))

	_, err = s.service.Submit(s.ctx, id)
	s.True(ierr.IsNotFound(err))
	s.Len(s.client.Calls(), 1)
	s.Len(s.publisher.GetEvents(), 1)
}

func (s *PlanWizardServiceSuite) TestReadDuringCloseDoesNotReopenWizard() {
	id := s.openAssign().ID
	s.toConfirmation(id)

	done, release := s.staleRead(id)
	s.Require().NoError(s.service.Close(s.ctx, id))

	release()
	out := s.readResult(done)
	s.True(ierr.IsNotFound(out.err), "got %v", out.err)

	_, err := s.service.Submit(s.ctx, id)
	s.True(ierr.IsNotFound(err))
	s.Empty(s.client.Calls())

	s.True(ierr.IsNotFound(s.service.Close(s.ctx, id)))
}
