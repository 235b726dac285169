package auth_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/essentialsgg/relay/app/sdk/auth"
	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/domain/tenantbus/stores/tenantfile"
	"github.com/essentialsgg/relay/business/sdk/docstore"
	"github.com/essentialsgg/relay/business/types/capability"
	"github.com/essentialsgg/relay/foundation/logger"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) (*auth.Auth, *tenantbus.Core) {
	t.Helper()

	log := logger.New(os.Stdout, logger.LevelError, "TEST", nil)

	ds, err := docstore.Open(filepath.Join(t.TempDir(), "relay.json"))
	if err != nil {
		t.Fatalf("Should be able to open the doc store : %s", err)
	}

	tenantBus := tenantbus.NewCore(log, tenantfile.NewStore(log, ds))

	a := auth.New(auth.Config{
		Log:          log,
		TenantBus:    tenantBus,
		OperatorUser: "operator",
		OperatorPass: "s3cr3t",
	})

	return a, tenantBus
}

func Test_CheckOperator(t *testing.T) {
	a, _ := newTestAuth(t)

	if err := a.CheckOperator("operator", "s3cr3t"); err != nil {
		t.Errorf("Should accept the configured credential : %s", err)
	}

	if err := a.CheckOperator("operator", "wrong"); err == nil {
		t.Error("Should reject a wrong password")
	}

	if err := a.CheckOperator("intruder", "s3cr3t"); err == nil {
		t.Error("Should reject a wrong username")
	}

	if err := a.CheckOperator("", ""); err == nil {
		t.Error("Should reject empty credentials")
	}
}

func Test_CheckOperatorBcrypt(t *testing.T) {
	log := logger.New(os.Stdout, logger.LevelError, "TEST", nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cr3t"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Should be able to hash the password : %s", err)
	}

	a := auth.New(auth.Config{
		Log:          log,
		OperatorUser: "operator",
		OperatorPass: string(hash),
	})

	if err := a.CheckOperator("operator", "s3cr3t"); err != nil {
		t.Errorf("Should accept the hashed credential : %s", err)
	}

	if err := a.CheckOperator("operator", "wrong"); err == nil {
		t.Error("Should reject a wrong password against the hash")
	}
}

func Test_CheckTenantKey(t *testing.T) {
	a, tenantBus := newTestAuth(t)
	ctx := context.Background()

	tenant, err := tenantBus.Register(ctx, "guild-1", capability.ManageGuild)
	if err != nil {
		t.Fatalf("Should be able to register a tenant : %s", err)
	}

	got, err := a.CheckTenantKey(ctx, tenant.APIKey)
	if err != nil {
		t.Fatalf("Should resolve a valid key : %s", err)
	}
	if got.ID != "guild-1" {
		t.Errorf("Should resolve to the registered tenant : got %q", got.ID)
	}

	if _, err := a.CheckTenantKey(ctx, "not-a-key"); !errors.Is(err, auth.ErrUnauthorized) {
		t.Errorf("Should report ErrUnauthorized for an unknown key : %v", err)
	}

	if _, err := a.CheckTenantKey(ctx, ""); !errors.Is(err, auth.ErrMissingKey) {
		t.Errorf("Should report ErrMissingKey for a missing key : %v", err)
	}
}

func Test_CheckCapability(t *testing.T) {
	a, _ := newTestAuth(t)

	tenant := tenantbus.Tenant{
		ID:                 "guild-1",
		RequiredCapability: capability.ManageGuild,
	}

	callerCaps := capability.ParseSet([]string{"SendMessages"})
	if err := a.CheckCapability(tenant, callerCaps); err == nil {
		t.Error("Should reject a caller without the required capability")
	}

	callerCaps = capability.ParseSet([]string{"SendMessages", "ManageGuild"})
	if err := a.CheckCapability(tenant, callerCaps); err != nil {
		t.Errorf("Should accept a caller holding the required capability : %s", err)
	}
}
