// Package tenantapp maintains the operator-facing app layer api for tenant
// registration and introspection.
package tenantapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/essentialsgg/relay/app/sdk/errs"
	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/sdk/web"
)

// app manages the set of app layer api functions for the tenant domain.
type app struct {
	tenantBus *tenantbus.Core
}

// newApp constructs a tenant app API for use.
func newApp(tenantBus *tenantbus.Core) *app {
	return &app{
		tenantBus: tenantBus,
	}
}

// register creates or updates a tenant and returns its bearer key. A
// re-registration keeps the existing key and only moves the required
// capability.
func (a *app) register(ctx context.Context, r *http.Request) web.Encoder {
	var app NewTenant
	if err := web.Decode(r, &app); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	rc, err := toBusCapability(app)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tenant, err := a.tenantBus.Register(ctx, app.TenantID, rc)
	if err != nil {
		if errors.Is(err, tenantbus.ErrUniqueKey) {
			return errs.New(errs.Aborted, tenantbus.ErrUniqueKey)
		}
		return errs.Errorf(errs.InternalOnlyLog, "register: tenantID[%s]: %s", app.TenantID, err)
	}

	return toAppRegistration(tenant)
}

// query lists every registered tenant with its key.
func (a *app) query(ctx context.Context, r *http.Request) web.Encoder {
	tenants, err := a.tenantBus.QueryAll(ctx)
	if err != nil {
		return errs.Errorf(errs.InternalOnlyLog, "queryall: %s", err)
	}

	return toAppTenants(tenants)
}
