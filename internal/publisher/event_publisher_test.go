package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/flexprice/adminconsole/internal/config"
	"github.com/flexprice/adminconsole/internal/logger"
	"github.com/flexprice/adminconsole/internal/pubsub"
	"github.com/flexprice/adminconsole/internal/pubsub/memory"
	"github.com/flexprice/adminconsole/internal/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/suite"
)

type EventPublisherSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    *config.Configuration
	pubSub pubsub.PubSub
}

func TestEventPublisher(t *testing.T) {
	suite.Run(t, new(EventPublisherSuite))
}

func (s *EventPublisherSuite) SetupTest() {
	s.ctx = types.SetRequestID(context.Background(), "req_1")
	s.cfg = config.GetDefaultConfig()
	s.pubSub = memory.NewPubSub(logger.NewNopLogger())
}

func (s *EventPublisherSuite) TearDownTest() {
	s.NoError(s.pubSub.Close())
}

func (s *EventPublisherSuite) event() *types.PlanWizardEvent {
	return &types.PlanWizardEvent{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EVENT),
		EventName: types.EventTenantPlanAssigned,
		TenantID:  "tenant_1",
		PlanID:    "plan_basic",
		Mode:      types.WizardModeAssign,
		ActorID:   "admin_1",
		Timestamp: time.Now().UTC(),
	}
}

func (s *EventPublisherSuite) TestPublish() {
	messages, err := s.pubSub.Subscribe(s.ctx, s.cfg.Events.Topic)
	s.Require().NoError(err)

	publisher := NewEventPublisher(s.pubSub, s.cfg, logger.NewNopLogger())
	event := s.event()
	s.Require().NoError(publisher.Publish(s.ctx, event))

	select {
	case msg := <-messages:
		s.Equal(event.ID, msg.UUID)
		s.Equal("tenant_1", msg.Metadata.Get("tenant_id"))
		s.Equal(types.EventTenantPlanAssigned, msg.Metadata.Get("event_name"))
		s.Equal("req_1", msg.Metadata.Get("request_id"))

		var decoded types.PlanWizardEvent
		s.Require().NoError(jsoniter.Unmarshal(msg.Payload, &decoded))
		s.Equal(event.PlanID, decoded.PlanID)
		s.Equal(types.WizardModeAssign, decoded.Mode)
		msg.Ack()
	case <-time.After(time.Second):
		s.Fail("no message received")
	}
}

func (s *EventPublisherSuite) TestDisabled() {
	s.cfg.Events.Enabled = false
	messages, err := s.pubSub.Subscribe(s.ctx, s.cfg.Events.Topic)
	s.Require().NoError(err)

	publisher := NewEventPublisher(s.pubSub, s.cfg, logger.NewNopLogger())
	s.Require().NoError(publisher.Publish(s.ctx, s.event()))

	select {
	case <-messages:
		s.Fail("events are disabled")
	case <-time.After(50 * time.Millisecond):
	}
}
