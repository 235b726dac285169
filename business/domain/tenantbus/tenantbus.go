// Package tenantbus provides business access to the tenant registry.
//
// The registry is append-only: there is no deregistration path and no bearer
// key rotation or expiry. Bearer keys are stored and compared in cleartext.
// Both are deliberate carry-overs from the legacy relay; see DESIGN.md.
package tenantbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/essentialsgg/relay/business/types/capability"
	"github.com/essentialsgg/relay/foundation/keygen"
	"github.com/essentialsgg/relay/foundation/logger"
	"github.com/essentialsgg/relay/foundation/otel"
)

var (
	ErrNotFound  = errors.New("tenant not found")
	ErrUniqueKey = errors.New("bearer key is not unique")
)

// Storer defines the behavior required by the tenantbus to persist the
// registry. Upsert must be atomic: two concurrent Upserts for the same
// tenant id must both observe a single winning row, so two racing Register
// calls cannot each mint their own key.
type Storer interface {
	Upsert(ctx context.Context, t Tenant) (Tenant, error)
	QueryByKey(ctx context.Context, key string) (Tenant, error)
	QueryByID(ctx context.Context, tenantID string) (Tenant, error)
	QueryAll(ctx context.Context) ([]Tenant, error)
}

// Core manages the set of APIs for tenant registry access.
type Core struct {
	storer Storer
	log    *logger.Logger
}

// NewCore constructs a core for tenant registry access.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		storer: storer,
		log:    log,
	}
}

// Register creates the tenant with a freshly generated bearer key, or, when
// the tenant already exists, updates its required capability in place while
// keeping the existing key. The caller always gets the current key back.
func (c *Core) Register(ctx context.Context, tenantID string, rc capability.Capability) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.register")
	defer span.End()

	key, err := keygen.Generate()
	if err != nil {
		return Tenant{}, fmt.Errorf("generate key: %w", err)
	}

	t := Tenant{
		ID:                 tenantID,
		APIKey:             key,
		RequiredCapability: rc,
		CreatedAt:          time.Now(),
	}

	registered, err := c.storer.Upsert(ctx, t)
	if err != nil {
		return Tenant{}, fmt.Errorf("upsert: tenantID[%s]: %w", tenantID, err)
	}

	return registered, nil
}

// QueryByKey finds the tenant holding the specified bearer key.
func (c *Core) QueryByKey(ctx context.Context, key string) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.queryByKey")
	defer span.End()

	tenant, err := c.storer.QueryByKey(ctx, key)
	if err != nil {
		return Tenant{}, fmt.Errorf("query by key: %w", err)
	}

	return tenant, nil
}

// QueryByID finds the tenant by the specified ID.
func (c *Core) QueryByID(ctx context.Context, tenantID string) (Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.queryByID")
	defer span.End()

	tenant, err := c.storer.QueryByID(ctx, tenantID)
	if err != nil {
		return Tenant{}, fmt.Errorf("query: tenantID[%s]: %w", tenantID, err)
	}

	return tenant, nil
}

// QueryAll returns every registered tenant in registration order. The order
// is for display only, not part of the contract.
func (c *Core) QueryAll(ctx context.Context) ([]Tenant, error) {
	ctx, span := otel.AddSpan(ctx, "business.tenantbus.queryAll")
	defer span.End()

	tenants, err := c.storer.QueryAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}

	return tenants, nil
}
