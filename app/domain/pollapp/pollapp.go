// Package pollapp maintains the app layer api the firewalled machines poll.
// Machines only ever connect outward, so every route here is a read of the
// caller's own mailbox.
package pollapp

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

// app manages the set of app layer api functions for the poll domain.
type app struct {
	mailboxBus *mailboxbus.Core
}

// newApp constructs a poll app API for use.
func newApp(mailboxBus *mailboxbus.Core) *app {
	return &app{
		mailboxBus: mailboxBus,
	}
}

// latest serves the legacy broadcast poll route. Broadcast is a peek kind so
// the call is repeatable.
func (a *app) latest(ctx context.Context, r *http.Request) web.Encoder {
	return a.poll(ctx, commandkind.Broadcast)
}

// latestByKind polls the caller's slot for the kind in the path, peeking or
// consuming per the kind's semantics.
func (a *app) latestByKind(ctx context.Context, r *http.Request) web.Encoder {
	kind, err := commandkind.Parse(web.Param(r, "kind"))
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	return a.poll(ctx, kind)
}

// validate lets a machine confirm its configured key before it starts
// polling.
func (a *app) validate(ctx context.Context, r *http.Request) web.Encoder {
	tenant, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Errorf(errs.Internal, "tenant missing in context: %s", err)
	}

	return KeyStatus{
		Valid:              true,
		RequiredCapability: tenant.RequiredCapability.String(),
	}
}

func (a *app) poll(ctx context.Context, kind commandkind.CommandKind) web.Encoder {
	tenant, err := mid.GetTenant(ctx)
	if err != nil {
		return errs.Errorf(errs.Internal, "tenant missing in context: %s", err)
	}

	e, err := a.mailboxBus.Poll(ctx, tenant.APIKey, kind)
	if err != nil {
		if errors.Is(err, mailboxbus.ErrNoEntry) {
			return web.NewNoResponse()
		}
		return errs.Errorf(errs.InternalOnlyLog, "poll: kind[%s]: %s", kind, err)
	}

	return toAppEntry(e)
}
