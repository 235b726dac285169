package tenantapp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/essentialsgg/relay/app/sdk/errs"
	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/types/capability"
)

// =============================================================================
// Tenant (Output)
// =============================================================================

// Tenant represents one registered tenant on the keys listing.
type Tenant struct {
	TenantID           string `json:"tenantId"`
	APIKey             string `json:"apiKey"`
	RequiredCapability string `json:"requiredCapability"`
	CreatedAt          string `json:"createdAt"`
}

// Encode implements the web.Encoder interface.
func (app Tenant) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppTenant(bus tenantbus.Tenant) Tenant {
	return Tenant{
		TenantID:           bus.ID,
		APIKey:             bus.APIKey,
		RequiredCapability: bus.RequiredCapability.String(),
		CreatedAt:          bus.CreatedAt.Format(time.RFC3339),
	}
}

// Tenants is the keys listing document.
type Tenants []Tenant

// Encode implements the web.Encoder interface.
func (app Tenants) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppTenants(tenants []tenantbus.Tenant) Tenants {
	app := make(Tenants, len(tenants))
	for i, tenant := range tenants {
		app[i] = toAppTenant(tenant)
	}
	return app
}

// =============================================================================
// Registration
// =============================================================================

// Registration is what the operator gets back for a registered tenant. This
// is the only place the system hands a key out.
type Registration struct {
	APIKey             string `json:"apiKey"`
	RequiredCapability string `json:"requiredCapability"`
}

// Encode implements the web.Encoder interface.
func (app Registration) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppRegistration(bus tenantbus.Tenant) Registration {
	return Registration{
		APIKey:             bus.APIKey,
		RequiredCapability: bus.RequiredCapability.String(),
	}
}

// =============================================================================
// NewTenant (Input)
// =============================================================================

// NewTenant defines the data needed to register a tenant.
type NewTenant struct {
	TenantID   string `json:"tenantId" validate:"required"`
	Capability string `json:"capability" validate:"required"`
}

// Decode implements the web.Decoder interface.
func (app *NewTenant) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewTenant) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

func toBusCapability(app NewTenant) (capability.Capability, error) {
	rc, err := capability.Parse(app.Capability)
	if err != nil {
		return capability.Capability{}, fmt.Errorf("parse capability: %w", err)
	}

	return rc, nil
}
