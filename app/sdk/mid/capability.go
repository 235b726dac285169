package mid

import (
	"context"
	"net/http"
	"strings"

	"github.com/essentialsgg/relay/app/sdk/auth"
	"github.com/essentialsgg/relay/app/sdk/errs"
	"github.com/essentialsgg/relay/business/sdk/web"
	"github.com/essentialsgg/relay/business/types/capability"
)

// CallerCapabilitiesHeader carries the caller's platform permission set on
// submission calls, comma separated. The frontend adapter fills it from
// whatever its platform reports for the invoking user.
const CallerCapabilitiesHeader = "X-Caller-Capabilities"

// Capability enforces the tenant's required capability against the caller's
// set. Must run after TenantKey.
func Capability(a *auth.Auth) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			tenant, err := GetTenant(ctx)
			if err != nil {
				return errs.Errorf(errs.Internal, "tenant missing in context: %s", err)
			}

			var names []string
			if raw := r.Header.Get(CallerCapabilitiesHeader); raw != "" {
				for _, name := range strings.Split(raw, ",") {
					names = append(names, strings.TrimSpace(name))
				}
			}

			if err := a.CheckCapability(tenant, capability.ParseSet(names)); err != nil {
				return errs.New(errs.PermissionDenied, err)
			}

			return next(ctx, r)
		}

		return h
	}

	return m
}
