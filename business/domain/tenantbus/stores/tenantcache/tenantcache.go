// Package tenantcache contains tenant registry related CRUD functionality
// with a read-through cache. Remote fleets poll on a fixed interval with the
// same bearer key every time, so key lookups dominate registry traffic.
package tenantcache

import (
	"context"
	"time"

	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/foundation/logger"
	"github.com/viccon/sturdyc"
)

// Store manages the set of APIs for tenant cache access.
type Store struct {
	log    *logger.Logger
	storer tenantbus.Storer
	cache  *sturdyc.Client[tenantbus.Tenant]
}

// NewStore constructs the api for data and cache access.
func NewStore(log *logger.Logger, storer tenantbus.Storer, ttl time.Duration) *Store {
	const capacity = 10000
	const numShards = 10
	const evictionPercentage = 10

	return &Store{
		log:    log,
		storer: storer,
		cache:  sturdyc.New[tenantbus.Tenant](capacity, numShards, ttl, evictionPercentage),
	}
}

// Upsert writes through to the database store and refreshes the cache so a
// re-registration's capability change is visible to the next submission.
func (s *Store) Upsert(ctx context.Context, t tenantbus.Tenant) (tenantbus.Tenant, error) {
	registered, err := s.storer.Upsert(ctx, t)
	if err != nil {
		return tenantbus.Tenant{}, err
	}

	s.cache.Set("key:"+registered.APIKey, registered)
	s.cache.Set("id:"+registered.ID, registered)

	return registered, nil
}

// QueryByKey gets the tenant holding the specified bearer key, from the
// cache when possible.
func (s *Store) QueryByKey(ctx context.Context, key string) (tenantbus.Tenant, error) {
	fetch := func(ctx context.Context) (tenantbus.Tenant, error) {
		return s.storer.QueryByKey(ctx, key)
	}

	return s.cache.GetOrFetch(ctx, "key:"+key, fetch)
}

// QueryByID gets the specified tenant, from the cache when possible.
func (s *Store) QueryByID(ctx context.Context, tenantID string) (tenantbus.Tenant, error) {
	fetch := func(ctx context.Context) (tenantbus.Tenant, error) {
		return s.storer.QueryByID(ctx, tenantID)
	}

	return s.cache.GetOrFetch(ctx, "id:"+tenantID, fetch)
}

// QueryAll returns every registered tenant. Introspection is rare; it always
// goes to the database.
func (s *Store) QueryAll(ctx context.Context) ([]tenantbus.Tenant, error) {
	return s.storer.QueryAll(ctx)
}
