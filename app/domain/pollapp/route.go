package pollapp

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

	tenantKey := mid.TenantKey(cfg.Auth)

	api := newApp(cfg.MailboxBus)

	// Legacy route, broadcast only. Kept so deployed agents keep working.
	app.HandlerFunc(http.MethodGet, version, "/latest", api.latest, tenantKey)

	app.HandlerFunc(http.MethodGet, version, "/commands/{kind}/latest", api.latestByKind, tenantKey)
	app.HandlerFunc(http.MethodGet, version, "/validate", api.validate, tenantKey)
}
