package tenantapp

import (
	"net/http"

	"github.com/essentialsgg/relay/app/sdk/auth"
	"github.com/essentialsgg/relay/app/sdk/mid"
	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/sdk/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth      *auth.Auth
	TenantBus *tenantbus.Core
}

// Routes adds specific routes for this group. Everything here is operator
// only.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	operator := mid.Operator(cfg.Auth)

	api := newApp(cfg.TenantBus)

	app.HandlerFunc(http.MethodGet, version, "/keys", api.query, operator)
	app.HandlerFunc(http.MethodPost, version, "/tenants", api.register, operator)
}
