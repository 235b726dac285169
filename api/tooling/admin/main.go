// This program provides administrative support for the relay: schema
// migration plus tenant registration and listing against the live store.
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"

	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/domain/tenantbus/stores/tenantdb"
	"github.com/essentialsgg/relay/business/sdk/sqldb"
	"github.com/essentialsgg/relay/business/types/capability"
	"github.com/essentialsgg/relay/foundation/logger"
	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
)

//go:embed schema.sql
var schemaDoc string

type Config struct {
	DB struct {
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:"postgres"`
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Name         string `envconfig:"DB_NAME" default:"relay"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"0"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"0"`
		DisableTLS   bool   `envconfig:"DB_DISABLE_TLS" default:"true"`
	}
}

func main() {
	log := logger.New(os.Stdout, logger.LevelInfo, "ADMIN-TOOL", nil)
	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("processing config: %w", err)
	}

	db, err := sqldb.Open(sqldb.Config{
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		DisableTLS:   cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer db.Close()

	tenantBus := tenantbus.NewCore(log, tenantdb.NewStore(log, db))

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: migrate, register-tenant, list-tenants")
		return nil
	}

	switch os.Args[1] {
	case "migrate":
		return runMigrate(ctx, db)
	case "register-tenant":
		return runRegisterTenant(ctx, tenantBus, os.Args[2:])
	case "list-tenants":
		return runListTenants(ctx, tenantBus)
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

func runMigrate(ctx context.Context, db *sqlx.DB) error {
	if err := sqldb.StatusCheck(ctx, db); err != nil {
		return fmt.Errorf("status check database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaDoc); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	fmt.Println("migrations complete")
	return nil
}

func runRegisterTenant(ctx context.Context, tb *tenantbus.Core, args []string) error {
	cmd := flag.NewFlagSet("register-tenant", flag.ExitOnError)
	tenantID := cmd.String("tenant", "", "Tenant id (Required)")
	capStr := cmd.String("capability", "ManageGuild", "Required caller capability")
	cmd.Parse(args)

	if *tenantID == "" {
		cmd.PrintDefaults()
		return fmt.Errorf("missing required fields")
	}

	rc, err := capability.Parse(*capStr)
	if err != nil {
		return fmt.Errorf("invalid capability: %w", err)
	}

	tenant, err := tb.Register(ctx, *tenantID, rc)
	if err != nil {
		return fmt.Errorf("register tenant: %w", err)
	}

	fmt.Printf("tenant: %s\nkey: %s\ncapability: %s\n", tenant.ID, tenant.APIKey, tenant.RequiredCapability)
	return nil
}

func runListTenants(ctx context.Context, tb *tenantbus.Core) error {
	tenants, err := tb.QueryAll(ctx)
	if err != nil {
		return fmt.Errorf("query tenants: %w", err)
	}

	for _, tenant := range tenants {
		fmt.Printf("%s\t%s\t%s\t%s\n", tenant.ID, tenant.APIKey, tenant.RequiredCapability, tenant.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
