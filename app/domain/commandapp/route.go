package commandapp

import (
	"net/http"

	"github.com/essentialsgg/relay/app/sdk/auth"
	"github.com/essentialsgg/relay/app/sdk/mid"
	"github.com/essentialsgg/relay/business/domain/mailboxbus"
	"github.com/essentialsgg/relay/business/sdk/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth       *auth.Auth
	MailboxBus *mailboxbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	operator := mid.Operator(cfg.Auth)
	tenantKey := mid.TenantKey(cfg.Auth)
	capability := mid.Capability(cfg.Auth)

	api := newApp(cfg.MailboxBus)

	// Submissions carry both auth domains: the operator credential proves the
	// call came from the frontend, the bearer key names the mailbox.
	app.HandlerFunc(http.MethodPost, version, "/commands/{kind}", api.submit, operator, tenantKey, capability)
}
