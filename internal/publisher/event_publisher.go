package publisher

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/flexprice/adminconsole/internal/config"
	"github.com/flexprice/adminconsole/internal/logger"
	"github.com/flexprice/adminconsole/internal/pubsub"
	"github.com/flexprice/adminconsole/internal/types"
	jsoniter "github.com/json-iterator/go"
)

// EventPublisher announces completed wizards so dependent tenant and invoice
// views can refresh
type EventPublisher interface {
	Publish(ctx context.Context, event *types.PlanWizardEvent) error
	Close() error
}

type eventPublisher struct {
	pubSub pubsub.PubSub
	config *config.EventsConfig
	logger *logger.Logger
}

// NewEventPublisher creates a publisher on top of a pubsub
func NewEventPublisher(
	pubSub pubsub.PubSub,
	cfg *config.Configuration,
	logger *logger.Logger,
) EventPublisher {
	return &eventPublisher{
		pubSub: pubSub,
		config: &cfg.Events,
		logger: logger,
	}
}

func (p *eventPublisher) Publish(ctx context.Context, event *types.PlanWizardEvent) error {
	if !p.config.Enabled {
		p.logger.Debugw("events disabled, skipping publish",
			"event_name", event.EventName,
			"tenant_id", event.TenantID,
		)
		return nil
	}

	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(event)
	if err != nil {
		return err
	}

	messageID := event.ID
	if messageID == "" {
		messageID = watermill.NewUUID()
	}

	msg := message.NewMessage(messageID, payload)
	msg.Metadata.Set("tenant_id", event.TenantID)
	msg.Metadata.Set("event_name", event.EventName)
	if requestID := types.GetRequestID(ctx); requestID != "" {
		msg.Metadata.Set("request_id", requestID)
	}

	p.logger.Debugw("publishing plan wizard event",
		"event_id", event.ID,
		"event_name", event.EventName,
		"tenant_id", event.TenantID,
		"topic", p.config.Topic,
	)

	if err := p.pubSub.Publish(ctx, p.config.Topic, msg); err != nil {
		p.logger.Errorw("failed to publish plan wizard event",
			"error", err,
			"event_id", event.ID,
			"event_name", event.EventName,
			"tenant_id", event.TenantID,
		)
		return err
	}

	p.logger.Infow("successfully published plan wizard event",
		"event_id", event.ID,
		"event_name", event.EventName,
		"tenant_id", event.TenantID,
	)

	return nil
}

// Close closes the underlying pubsub
func (p *eventPublisher) Close() error {
	return p.pubSub.Close()
}
