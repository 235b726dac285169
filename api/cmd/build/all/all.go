// Package all binds all the routes into the specified app.
package all

import (
	"fmt"
	"time"

	"github.com/essentialsgg/relay/app/domain/checkapp"
	"github.com/essentialsgg/relay/app/domain/commandapp"
	"github.com/essentialsgg/relay/app/domain/pollapp"
	"github.com/essentialsgg/relay/app/domain/tenantapp"
	"github.com/essentialsgg/relay/app/sdk/auth"
	"github.com/essentialsgg/relay/app/sdk/mux"
	"github.com/essentialsgg/relay/business/domain/mailboxbus"
	"github.com/essentialsgg/relay/business/domain/mailboxbus/stores/mailboxdb"
	"github.com/essentialsgg/relay/business/domain/mailboxbus/stores/mailboxfile"
	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/domain/tenantbus/stores/tenantcache"
	"github.com/essentialsgg/relay/business/domain/tenantbus/stores/tenantdb"
	"github.com/essentialsgg/relay/business/domain/tenantbus/stores/tenantfile"
	"github.com/essentialsgg/relay/business/sdk/docstore"
	"github.com/essentialsgg/relay/business/sdk/web"
)

// Routes constructs the add value which provides the implementation of
// of RouteAdder for specifying what routes to bind to this instance.
func Routes() add {
	return add{}
}

type add struct{}

func (add) Add(app *web.App, cfg mux.Config) error {
	var tenantStorer tenantbus.Storer
	var mailboxStorer mailboxbus.Storer

	switch cfg.StoreConfig.Backend {
	case "postgres":
		tenantStorer = tenantcache.NewStore(cfg.Log, tenantdb.NewStore(cfg.Log, cfg.DB), time.Minute*5)
		mailboxStorer = mailboxdb.NewStore(cfg.Log, cfg.DB)

	case "file":
		ds, err := docstore.Open(cfg.StoreConfig.FilePath)
		if err != nil {
			return fmt.Errorf("open docstore: %w", err)
		}
		tenantStorer = tenantfile.NewStore(cfg.Log, ds)
		mailboxStorer = mailboxfile.NewStore(cfg.Log, ds)

	default:
		return fmt.Errorf("unknown store backend %q", cfg.StoreConfig.Backend)
	}

	tenantBus := tenantbus.NewCore(cfg.Log, tenantStorer)
	mailboxBus := mailboxbus.NewCore(cfg.Log, tenantBus, mailboxStorer)

	authClient := auth.New(auth.Config{
		Log:          cfg.Log,
		TenantBus:    tenantBus,
		OperatorUser: cfg.AuthConfig.OperatorUser,
		OperatorPass: cfg.AuthConfig.OperatorPass,
	})

	checkapp.Routes(app, checkapp.Config{
		Build: cfg.Build,
		Log:   cfg.Log,
		DB:    cfg.DB,
	})

	tenantapp.Routes(app, tenantapp.Config{
		Auth:      authClient,
		TenantBus: tenantBus,
	})

	commandapp.Routes(app, commandapp.Config{
		Auth:       authClient,
		MailboxBus: mailboxBus,
	})

	pollapp.Routes(app, pollapp.Config{
		Auth:       authClient,
		MailboxBus: mailboxBus,
	})

	return nil
}
