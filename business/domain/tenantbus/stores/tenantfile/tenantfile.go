// Package tenantfile contains tenant registry access over the flat-file
// document store.
package tenantfile

import (
	"context"
	"fmt"
	"sort"

	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/sdk/docstore"
	"github.com/essentialsgg/relay/business/types/capability"
	"github.com/essentialsgg/relay/foundation/logger"
)

// Store manages the set of APIs for tenant document access.
type Store struct {
	log *logger.Logger
	ds  *docstore.Store
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, ds *docstore.Store) *Store {
	return &Store{
		log: log,
		ds:  ds,
	}
}

// Upsert inserts the tenant, or updates its required capability in place
// keeping the existing key. The document store's single writer serializes
// concurrent registrations.
func (s *Store) Upsert(ctx context.Context, t tenantbus.Tenant) (tenantbus.Tenant, error) {
	var registered docstore.Tenant

	err := s.ds.Update(func(doc *docstore.Document) error {
		if existing, exists := doc.Tenants[t.ID]; exists {
			existing.RequiredCapability = t.RequiredCapability.String()
			doc.Tenants[t.ID] = existing
			registered = existing
			return nil
		}

		for _, other := range doc.Tenants {
			if other.APIKey == t.APIKey {
				return tenantbus.ErrUniqueKey
			}
		}

		registered = toDocTenant(t)
		doc.Tenants[t.ID] = registered
		return nil
	})
	if err != nil {
		return tenantbus.Tenant{}, fmt.Errorf("update: %w", err)
	}

	return toBusTenant(registered)
}

// QueryByKey gets the tenant holding the specified bearer key.
func (s *Store) QueryByKey(ctx context.Context, key string) (tenantbus.Tenant, error) {
	var found docstore.Tenant

	err := s.ds.View(func(doc *docstore.Document) error {
		for _, t := range doc.Tenants {
			if t.APIKey == key {
				found = t
				return nil
			}
		}
		return tenantbus.ErrNotFound
	})
	if err != nil {
		return tenantbus.Tenant{}, fmt.Errorf("view: %w", err)
	}

	return toBusTenant(found)
}

// QueryByID gets the specified tenant from the document.
func (s *Store) QueryByID(ctx context.Context, tenantID string) (tenantbus.Tenant, error) {
	var found docstore.Tenant

	err := s.ds.View(func(doc *docstore.Document) error {
		t, exists := doc.Tenants[tenantID]
		if !exists {
			return tenantbus.ErrNotFound
		}
		found = t
		return nil
	})
	if err != nil {
		return tenantbus.Tenant{}, fmt.Errorf("view: %w", err)
	}

	return toBusTenant(found)
}

// QueryAll returns every registered tenant in registration order.
func (s *Store) QueryAll(ctx context.Context) ([]tenantbus.Tenant, error) {
	var docTs []docstore.Tenant

	err := s.ds.View(func(doc *docstore.Document) error {
		for _, t := range doc.Tenants {
			docTs = append(docTs, t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("view: %w", err)
	}

	sort.Slice(docTs, func(i, j int) bool {
		if !docTs[i].CreatedAt.Equal(docTs[j].CreatedAt) {
			return docTs[i].CreatedAt.Before(docTs[j].CreatedAt)
		}
		return docTs[i].ID < docTs[j].ID
	})

	tenants := make([]tenantbus.Tenant, len(docTs))
	for i, docT := range docTs {
		var err error
		tenants[i], err = toBusTenant(docT)
		if err != nil {
			return nil, err
		}
	}

	return tenants, nil
}

// =============================================================================

func toDocTenant(bus tenantbus.Tenant) docstore.Tenant {
	return docstore.Tenant{
		ID:                 bus.ID,
		APIKey:             bus.APIKey,
		RequiredCapability: bus.RequiredCapability.String(),
		CreatedAt:          bus.CreatedAt.UTC(),
	}
}

func toBusTenant(doc docstore.Tenant) (tenantbus.Tenant, error) {
	rc, err := capability.Parse(doc.RequiredCapability)
	if err != nil {
		return tenantbus.Tenant{}, fmt.Errorf("parse capability: %w", err)
	}

	return tenantbus.Tenant{
		ID:                 doc.ID,
		APIKey:             doc.APIKey,
		RequiredCapability: rc,
		CreatedAt:          doc.CreatedAt,
	}, nil
}
