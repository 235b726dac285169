package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/essentialsgg/relay/app/sdk/auth"
	"github.com/essentialsgg/relay/app/sdk/errs"
	"github.com/essentialsgg/relay/business/sdk/web"
)

// TenantKey resolves the caller's bearer key to its tenant and stores the
// tenant in the context. The key travels in the x-api-key header on
// submissions or the key query parameter on polls. A missing key is 400; an
// unknown key is 403.
func TenantKey(a *auth.Auth) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			key := r.Header.Get("x-api-key")
			if key == "" {
				key = r.URL.Query().Get("key")
			}

			tenant, err := a.CheckTenantKey(ctx, key)
			if err != nil {
				if errors.Is(err, auth.ErrMissingKey) {
					return errs.New(errs.InvalidArgument, err)
				}
				return errs.New(errs.PermissionDenied, err)
			}

			ctx = setTenant(ctx, tenant)

			return next(ctx, r)
		}

		return h
	}

	return m
}
