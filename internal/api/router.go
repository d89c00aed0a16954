package api

import (
	v1 "github.com/flexprice/adminconsole/internal/api/v1"
	"github.com/flexprice/adminconsole/internal/config"
	"github.com/flexprice/adminconsole/internal/logger"
	"github.com/flexprice/adminconsole/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health     *v1.HealthHandler
	PlanWizard *v1.PlanWizardHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.Default()
	// multipart bodies above this spill to disk; receipts are capped separately
	router.MaxMultipartMemory = cfg.Wizard.ReceiptMaxBytes + 1<<20

	router.Use(
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	v1Group.Use(middleware.IdentityMiddleware, middleware.SentryScopeMiddleware)
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	tenants := router.Group("/tenants/:tenant_id")
	tenants.Use(middleware.TenantMiddleware)
	{
		tenants.POST("/plan-wizards", handlers.PlanWizard.Open)
	}

	wizards := router.Group("/plan-wizards")
	{
		wizards.GET("/:id", handlers.PlanWizard.Get)
		wizards.PATCH("/:id/fields", handlers.PlanWizard.UpdateField)
		wizards.POST("/:id/next", handlers.PlanWizard.NextStep)
		wizards.POST("/:id/prev", handlers.PlanWizard.PrevStep)
		wizards.POST("/:id/reset-custom-price", handlers.PlanWizard.ResetCustomPrice)
		wizards.POST("/:id/receipt", handlers.PlanWizard.AttachReceipt)
		wizards.POST("/:id/submit", handlers.PlanWizard.Submit)
		wizards.DELETE("/:id", handlers.PlanWizard.Close)
	}
}
