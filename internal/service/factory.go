package service

import (
	"github.com/flexprice/adminconsole/internal/cache"
	"github.com/flexprice/adminconsole/internal/config"
	"github.com/flexprice/adminconsole/internal/domain/assignment"
	"github.com/flexprice/adminconsole/internal/domain/plan"
	"github.com/flexprice/adminconsole/internal/logger"
	"github.com/flexprice/adminconsole/internal/publisher"
	"github.com/flexprice/adminconsole/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Collaborators
	PlanCatalog      plan.Catalog
	AssignmentClient assignment.Client

	// Publishers
	EventPublisher publisher.EventPublisher

	Sentry *sentry.Service
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	planCatalog plan.Catalog,
	assignmentClient assignment.Client,
	eventPublisher publisher.EventPublisher,
	sentry *sentry.Service,
) ServiceParams {
	return ServiceParams{
		Logger:           logger,
		Config:           config,
		Cache:            cache,
		PlanCatalog:      planCatalog,
		AssignmentClient: assignmentClient,
		EventPublisher:   eventPublisher,
		Sentry:           sentry,
	}
}
