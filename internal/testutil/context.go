package testutil

import (
	"context"

	"github.com/flexprice/adminconsole/internal/types"
)

// SetupContext returns a context carrying the default tenant and admin and a fresh request id
func SetupContext() context.Context {
	return SetupContextForUser(types.DefaultUserID)
}

// SetupContextForUser is SetupContext acting as userID
func SetupContextForUser(userID string) context.Context {
	ctx := context.Background()
	ctx = types.SetTenantID(ctx, types.DefaultTenantID)
	ctx = types.SetUserID(ctx, userID)
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}
