package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/essentialsgg/relay/app/sdk/auth"
	"github.com/essentialsgg/relay/app/sdk/errs"
	"github.com/essentialsgg/relay/business/sdk/web"
)

// Operator validates the Basic-Auth operator credential on the request. A
// missing header is 401, a wrong credential is 403. Deployed frontends key
// off the distinction, so it is part of the wire contract.
func Operator(a *auth.Auth) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			user, pass, ok := r.BasicAuth()
			if !ok {
				return errs.New(errs.Unauthenticated, errors.New("authentication required"))
			}

			if err := a.CheckOperator(user, pass); err != nil {
				return errs.New(errs.PermissionDenied, err)
			}

			return next(ctx, r)
		}

		return h
	}

	return m
}
