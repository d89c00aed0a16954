package integration

import (
	"github.com/flexprice/adminconsole/internal/config"
	"github.com/flexprice/adminconsole/internal/domain/assignment"
	"github.com/flexprice/adminconsole/internal/domain/plan"
	"github.com/flexprice/adminconsole/internal/httpclient"
	"github.com/flexprice/adminconsole/internal/integration/console"
	"github.com/flexprice/adminconsole/internal/logger"
)

// Factory builds the outbound console API clients
type Factory struct {
	config *config.Configuration
	logger *logger.Logger
}

// NewFactory creates a new integration factory
func NewFactory(config *config.Configuration, logger *logger.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// GetPlanCatalog returns the plan catalog client. Catalog reads are retried.
func (f *Factory) GetPlanCatalog() plan.Catalog {
	httpClient := httpclient.NewDefaultClient(httpclient.ClientConfig{
		Timeout:  f.config.Catalog.Timeout,
		RetryMax: f.config.Catalog.RetryMax,
	}, f.logger)

	return console.NewPlanCatalog(console.NewClient(f.config.Catalog.BaseURL, httpClient, f.logger))
}

// GetAssignmentClient returns the plan-assignment client. Submissions are sent once.
func (f *Factory) GetAssignmentClient() assignment.Client {
	httpClient := httpclient.NewDefaultClient(httpclient.ClientConfig{
		Timeout: f.config.Assignment.Timeout,
	}, f.logger)

	return console.NewAssignmentClient(console.NewClient(f.config.Assignment.BaseURL, httpClient, f.logger))
}
