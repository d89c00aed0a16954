package main

import (
	"context"
	"net/http"
	"time"

	"github.com/flexprice/adminconsole/internal/api"
	v1 "github.com/flexprice/adminconsole/internal/api/v1"
	"github.com/flexprice/adminconsole/internal/cache"
	"github.com/flexprice/adminconsole/internal/config"
	"github.com/flexprice/adminconsole/internal/domain/assignment"
	"github.com/flexprice/adminconsole/internal/domain/plan"
	"github.com/flexprice/adminconsole/internal/integration"
	"github.com/flexprice/adminconsole/internal/logger"
	"github.com/flexprice/adminconsole/internal/publisher"
	"github.com/flexprice/adminconsole/internal/pubsub/memory"
	"github.com/flexprice/adminconsole/internal/sentry"
	"github.com/flexprice/adminconsole/internal/service"
	"github.com/flexprice/adminconsole/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Wizard sessions
			provideCache,

			// Console APIs
			integration.NewFactory,
			providePlanCatalog,
			provideAssignmentClient,

			// Events
			memory.NewPubSub,
			publisher.NewEventPublisher,
		),
		sentry.Module(),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewPlanWizardService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			validator.NewValidator,
			startAPIServer,
			closePublisher,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideCache(cfg *config.Configuration, log *logger.Logger) cache.Cache {
	return cache.NewInMemoryCache(cfg, log)
}

func providePlanCatalog(factory *integration.Factory) plan.Catalog {
	return factory.GetPlanCatalog()
}

func provideAssignmentClient(factory *integration.Factory) assignment.Client {
	return factory.GetAssignmentClient()
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	planWizardService service.PlanWizardService,
) api.Handlers {
	return api.Handlers{
		Health:     v1.NewHealthHandler(logger),
		PlanWizard: v1.NewPlanWizardHandler(planWizardService, cfg, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}

func closePublisher(lc fx.Lifecycle, pub publisher.EventPublisher, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := pub.Close(); err != nil {
				log.Errorw("failed to close event publisher", "error", err)
			}
			return nil
		},
	})
}
