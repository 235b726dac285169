package tenantbus_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/domain/tenantbus/stores/tenantfile"
	"github.com/essentialsgg/relay/business/sdk/docstore"
	"github.com/essentialsgg/relay/business/types/capability"
	"github.com/essentialsgg/relay/foundation/keygen"
	"github.com/essentialsgg/relay/foundation/logger"
)

func newTestCore(t *testing.T) *tenantbus.Core {
	t.Helper()

	log := logger.New(os.Stdout, logger.LevelError, "TEST", nil)

	ds, err := docstore.Open(filepath.Join(t.TempDir(), "relay.json"))
	if err != nil {
		t.Fatalf("Should be able to open the doc store : %s", err)
	}

	return tenantbus.NewCore(log, tenantfile.NewStore(log, ds))
}

func Test_Register(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	tenant, err := core.Register(ctx, "guild-1", capability.ManageGuild)
	if err != nil {
		t.Fatalf("Should be able to register a tenant : %s", err)
	}

	if len(tenant.APIKey) != keygen.KeyLength {
		t.Errorf("Should mint a %d character key : got %d", keygen.KeyLength, len(tenant.APIKey))
	}
	if !tenant.RequiredCapability.Equal(capability.ManageGuild) {
		t.Error("Should store the required capability")
	}
}

func Test_RegisterKeepsExistingKey(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	first, err := core.Register(ctx, "guild-1", capability.ManageGuild)
	if err != nil {
		t.Fatalf("Should be able to register a tenant : %s", err)
	}

	second, err := core.Register(ctx, "guild-1", capability.Administrator)
	if err != nil {
		t.Fatalf("Should be able to re-register a tenant : %s", err)
	}

	if second.APIKey != first.APIKey {
		t.Error("Should keep the existing key on re-registration")
	}
	if !second.RequiredCapability.Equal(capability.Administrator) {
		t.Error("Should move the required capability on re-registration")
	}
}

func Test_QueryByKey(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	tenant, err := core.Register(ctx, "guild-1", capability.ManageGuild)
	if err != nil {
		t.Fatalf("Should be able to register a tenant : %s", err)
	}

	got, err := core.QueryByKey(ctx, tenant.APIKey)
	if err != nil {
		t.Fatalf("Should find the tenant by key : %s", err)
	}
	if got.ID != "guild-1" {
		t.Errorf("Should resolve the key to its tenant : got %q", got.ID)
	}

	if _, err := core.QueryByKey(ctx, "unknown"); !errors.Is(err, tenantbus.ErrNotFound) {
		t.Errorf("Should report ErrNotFound for an unknown key : %v", err)
	}
}

func Test_QueryAll(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	for _, id := range []string{"guild-1", "guild-2", "guild-3"} {
		if _, err := core.Register(ctx, id, capability.ManageGuild); err != nil {
			t.Fatalf("Should be able to register %q : %s", id, err)
		}
	}

	tenants, err := core.QueryAll(ctx)
	if err != nil {
		t.Fatalf("Should be able to list tenants : %s", err)
	}
	if len(tenants) != 3 {
		t.Fatalf("Should list every registered tenant : got %d", len(tenants))
	}
}

func Test_ConcurrentRegister(t *testing.T) {
	core := newTestCore(t)
	ctx := context.Background()

	const callers = 10

	keys := make([]string, callers)

	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()

			tenant, err := core.Register(ctx, "guild-1", capability.ManageGuild)
			if err != nil {
				t.Errorf("Should be able to register concurrently : %s", err)
				return
			}
			keys[i] = tenant.APIKey
		}(i)
	}

	wg.Wait()

	for i := 1; i < callers; i++ {
		if keys[i] != keys[0] {
			t.Fatal("Should hand every racing caller the same winning key")
		}
	}
}
