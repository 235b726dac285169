package tenantdb

import (
	"fmt"
	"time"

	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/types/capability"
)

// tenantDB represents the structure of the tenant table in the database.
type tenantDB struct {
	ID                 string    `db:"tenant_id"`
	APIKey             string    `db:"api_key"`
	RequiredCapability string    `db:"required_capability"`
	CreatedAt          time.Time `db:"created_at"`
}

func toDBTenant(bus tenantbus.Tenant) tenantDB {
	return tenantDB{
		ID:                 bus.ID,
		APIKey:             bus.APIKey,
		RequiredCapability: bus.RequiredCapability.String(),
		CreatedAt:          bus.CreatedAt.UTC(),
	}
}

func toBusTenant(db tenantDB) (tenantbus.Tenant, error) {
	rc, err := capability.Parse(db.RequiredCapability)
	if err != nil {
		return tenantbus.Tenant{}, fmt.Errorf("parse capability: %w", err)
	}

	return tenantbus.Tenant{
		ID:                 db.ID,
		APIKey:             db.APIKey,
		RequiredCapability: rc,
		CreatedAt:          db.CreatedAt.In(time.Local),
	}, nil
}

func toBusTenants(dbs []tenantDB) ([]tenantbus.Tenant, error) {
	bus := make([]tenantbus.Tenant, len(dbs))
	for i, dbT := range dbs {
		var err error
		bus[i], err = toBusTenant(dbT)
		if err != nil {
			return nil, err
		}
	}
	return bus, nil
}
