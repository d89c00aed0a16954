package middleware

import (
	"strings"

	"github.com/flexprice/adminconsole/internal/types"
	"github.com/gin-gonic/gin"
)

// IdentityMiddleware copies the acting admin, already authenticated by the
// gateway in front of this service, into the request context. Requests
// without the header act as the default user.
func IdentityMiddleware(c *gin.Context) {
	userID := strings.TrimSpace(c.GetHeader(types.HeaderUserID))
	if userID == "" {
		userID = types.DefaultUserID
	}

	ctx := types.SetUserID(c.Request.Context(), userID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// TenantMiddleware puts the tenant of a tenant-scoped route into the context
func TenantMiddleware(c *gin.Context) {
	if tenantID := c.Param("tenant_id"); tenantID != "" {
		ctx := types.SetTenantID(c.Request.Context(), tenantID)
		c.Request = c.Request.WithContext(ctx)
	}
	c.Next()
}
