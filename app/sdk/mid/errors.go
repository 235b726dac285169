package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/essentialsgg/relay/app/sdk/errs"
	"github.com/essentialsgg/relay/business/sdk/web"
	"github.com/essentialsgg/relay/foundation/logger"
)

// Errors handles errors coming out of the call chain. It detects normal
// application errors which are used to respond to the client in a uniform
// way. Unexpected errors are logged with the real message and masked on
// the wire.
func Errors(log *logger.Logger) web.MidFunc {
	m := func(next web.HandlerFunc) web.HandlerFunc {
		h := func(ctx context.Context, r *http.Request) web.Encoder {
			resp := next(ctx, r)
			err := checkIsError(resp)
			if err == nil {
				return resp
			}

			appErr := errs.GetError(err)
			if !errs.IsError(err) {
				appErr = errs.New(errs.Internal, err)
			}

			log.Error(ctx, "handled error during request", "code", appErr.Code.String(), "err", appErr.Message)

			if appErr.Code == errs.InternalOnlyLog {
				appErr = errs.New(errs.Internal, errors.New("internal server error"))
			}

			return appErr
		}

		return h
	}

	return m
}
