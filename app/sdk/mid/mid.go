// Package mid provides app level middleware support.
package mid

import (
	"context"
	"errors"

	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/sdk/web"
)

func checkIsError(e web.Encoder) error {
	err, hasError := e.(error)
	if hasError {
		return err
	}

	return nil
}

// =============================================================================

type ctxKey int

const (
	tenantKey ctxKey = iota + 1
)

func setTenant(ctx context.Context, tenant tenantbus.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, tenant)
}

// GetTenant returns the authenticated tenant from the context.
func GetTenant(ctx context.Context) (tenantbus.Tenant, error) {
	v, ok := ctx.Value(tenantKey).(tenantbus.Tenant)
	if !ok {
		return tenantbus.Tenant{}, errors.New("tenant not found in context")
	}

	return v, nil
}
