package middleware

import (
	"time"

	"github.com/flexprice/adminconsole/internal/config"
	"github.com/flexprice/adminconsole/internal/types"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// SentryMiddleware returns a middleware that captures errors and performance data
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// SentryScopeMiddleware tags the request's hub with the acting admin, the
// tenant and the wizard being worked on. It must run after IdentityMiddleware.
func SentryScopeMiddleware(c *gin.Context) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		ctx := c.Request.Context()
		scope := hub.Scope()
		scope.SetTag("request_id", types.GetRequestID(ctx))
		scope.SetTag("user_id", types.GetUserID(ctx))
		if tenantID := c.Param("tenant_id"); tenantID != "" {
			scope.SetTag("tenant_id", tenantID)
		}
		if wizardID := c.Param("id"); wizardID != "" {
			scope.SetTag("wizard_id", wizardID)
		}
	}
	c.Next()
}
