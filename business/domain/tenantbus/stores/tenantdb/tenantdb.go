// Package tenantdb contains tenant registry related CRUD functionality.
package tenantdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/sdk/sqldb"
	"github.com/essentialsgg/relay/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for tenant database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// Upsert inserts the tenant, or updates its required capability in place if
// the tenant id is already registered. The single statement makes concurrent
// registrations serialize inside the database: exactly one caller inserts,
// and every caller reads back the winning row with its key intact.
func (s *Store) Upsert(ctx context.Context, t tenantbus.Tenant) (tenantbus.Tenant, error) {
	const q = `
	INSERT INTO "public"."tenant"
		(tenant_id, api_key, required_capability, created_at)
	VALUES
		(:tenant_id, :api_key, :required_capability, :created_at)
	ON CONFLICT (tenant_id) DO UPDATE SET
		required_capability = EXCLUDED.required_capability
	RETURNING
		tenant_id, api_key, required_capability, created_at`

	var dbT tenantDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, toDBTenant(t), &dbT); err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			if dupErr.Column == "api_key" || dupErr.Column == "tenant_api_key_idx" {
				return tenantbus.Tenant{}, fmt.Errorf("namedquerystruct: %w", tenantbus.ErrUniqueKey)
			}
		}
		return tenantbus.Tenant{}, fmt.Errorf("namedquerystruct: %w", err)
	}

	return toBusTenant(dbT)
}

// QueryByKey gets the tenant holding the specified bearer key.
func (s *Store) QueryByKey(ctx context.Context, key string) (tenantbus.Tenant, error) {
	data := struct {
		APIKey string `db:"api_key"`
	}{
		APIKey: key,
	}

	const q = `
	SELECT
		tenant_id, api_key, required_capability, created_at
	FROM
		"public"."tenant"
	WHERE
		api_key = :api_key`

	var dbT tenantDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbT); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return tenantbus.Tenant{}, fmt.Errorf("db: %w", tenantbus.ErrNotFound)
		}
		return tenantbus.Tenant{}, fmt.Errorf("db: %w", err)
	}

	return toBusTenant(dbT)
}

// QueryByID gets the specified tenant from the database.
func (s *Store) QueryByID(ctx context.Context, tenantID string) (tenantbus.Tenant, error) {
	data := struct {
		ID string `db:"tenant_id"`
	}{
		ID: tenantID,
	}

	const q = `
	SELECT
		tenant_id, api_key, required_capability, created_at
	FROM
		"public"."tenant"
	WHERE
		tenant_id = :tenant_id`

	var dbT tenantDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbT); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return tenantbus.Tenant{}, fmt.Errorf("db: %w", tenantbus.ErrNotFound)
		}
		return tenantbus.Tenant{}, fmt.Errorf("db: %w", err)
	}

	return toBusTenant(dbT)
}

// QueryAll returns every registered tenant in registration order.
func (s *Store) QueryAll(ctx context.Context) ([]tenantbus.Tenant, error) {
	const q = `
	SELECT
		tenant_id, api_key, required_capability, created_at
	FROM
		"public"."tenant"
	ORDER BY
		created_at, tenant_id`

	var dbTs []tenantDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, struct{}{}, &dbTs); err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	return toBusTenants(dbTs)
}
