// Package commandapp maintains the app layer api for submitting operator
// commands into tenant mailboxes.
package commandapp

import (
	"context"
	"errors"
	"net/http"

	"github.com/essentialsgg/relay/app/sdk/errs"
	"github.com/essentialsgg/relay/app/sdk/mid"
	"github.com/essentialsgg/relay/business/domain/mailboxbus"
	"github.com/essentialsgg/relay/business/sdk/web"
	"github.com/essentialsgg/relay/business/types/commandkind"
)

// app manages the set of app layer api functions for the command domain.
type app struct {
	mailboxBus *mailboxbus.Core
}

// newApp constructs a command app API for use.
func newApp(mailboxBus *mailboxbus.Core) *app {
	return &app{
		mailboxBus: mailboxBus,
	}
}

// submit replaces the tenant's slot for the given kind with a new entry.
func (a *app) submit(ctx context.Context, r *http.Request) web.Encoder {
	kind, err := commandkind.Parse(web.Param(r, "kind"))
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	payload, err := decodePayload(r, kind)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	tenant, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Errorf(errs.Internal, "tenant missing in context: %s", err)
	}

	id, err := a.mailboxBus.Submit(ctx, tenant.APIKey, kind, payload)
	if err != nil {
		if errors.Is(err, mailboxbus.ErrTenantNotFound) {
			return errs.New(errs.PermissionDenied, mailboxbus.ErrTenantNotFound)
		}
		if errors.Is(err, mailboxbus.ErrInvalidPayload) {
			return errs.New(errs.InvalidArgument, err)
		}
		return errs.Errorf(errs.InternalOnlyLog, "submit: kind[%s]: %s", kind, err)
	}

	return Accepted{Success: true, ID: id}
}
