package tenantbus

import (
	"time"

	"github.com/essentialsgg/relay/business/types/capability"
)

// Tenant represents one registered guild/server/customer. A tenant is bound
// to exactly one bearer key; the key authenticates every poll and submit
// call made on the tenant's behalf.
type Tenant struct {
	ID                 string
	APIKey             string
	RequiredCapability capability.Capability
	CreatedAt          time.Time
}
