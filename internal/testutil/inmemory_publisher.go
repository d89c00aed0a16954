package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/adminconsole/internal/publisher"
	"github.com/flexprice/adminconsole/internal/types"
)

// InMemoryPublisherService provides an in-memory implementation of publisher.EventPublisher for testing
type InMemoryPublisherService struct {
	mu     sync.RWMutex
	events []*types.PlanWizardEvent
	err    error
}

var _ publisher.EventPublisher = (*InMemoryPublisherService)(nil)

// NewInMemoryEventPublisher creates a new instance of InMemoryPublisherService
func NewInMemoryEventPublisher() *InMemoryPublisherService {
	return &InMemoryPublisherService{
		events: make([]*types.PlanWizardEvent, 0),
	}
}

func (p *InMemoryPublisherService) Publish(ctx context.Context, event *types.PlanWizardEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *InMemoryPublisherService) Close() error {
	return nil
}

// FailWith makes every following publish fail with err
func (p *InMemoryPublisherService) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// GetEvents returns all published events
func (p *InMemoryPublisherService) GetEvents() []*types.PlanWizardEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	events := make([]*types.PlanWizardEvent, len(p.events))
	copy(events, p.events)
	return events
}

// Clear removes all published events
func (p *InMemoryPublisherService) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = make([]*types.PlanWizardEvent, 0)
}
