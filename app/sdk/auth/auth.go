// Package auth provides the relay's two authentication domains and the
// capability gate. The domains are independent and never conflated: the
// operator credential guards administrative and submission routes, the
// per-tenant bearer key guards mailbox access.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/types/capability"
	"github.com/essentialsgg/relay/foundation/logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrOperatorDenied = errors.New("operator credentials are not valid")
	ErrUnauthorized   = errors.New("invalid API key")
	ErrMissingKey     = errors.New("API key is required")
)

// Config represents information required to initialize auth.
type Config struct {
	Log       *logger.Logger
	TenantBus *tenantbus.Core

	// OperatorUser/OperatorPass form the single shared operator credential.
	// OperatorPass may be a bcrypt hash (a "$2" prefixed value); otherwise it
	// is compared as a plain shared secret, in constant time.
	OperatorUser string
	OperatorPass string
}

// Auth is used to authenticate callers.
type Auth struct {
	log          *logger.Logger
	tenantBus    *tenantbus.Core
	operatorUser string
	operatorPass string
}

// New creates an Auth to support authentication/authorization.
func New(cfg Config) *Auth {
	return &Auth{
		log:          cfg.Log,
		tenantBus:    cfg.TenantBus,
		operatorUser: cfg.OperatorUser,
		operatorPass: cfg.OperatorPass,
	}
}

// CheckOperator compares the presented Basic-Auth pair against the
// configured operator credential. Both comparisons are constant time so the
// check leaks nothing about how much of the credential matched.
func (a *Auth) CheckOperator(user string, pass string) error {
	userMatch := constantTimeEquals(user, a.operatorUser)

	var passMatch bool
	switch {
	case strings.HasPrefix(a.operatorPass, "$2"):
		passMatch = bcrypt.CompareHashAndPassword([]byte(a.operatorPass), []byte(pass)) == nil
	default:
		passMatch = constantTimeEquals(pass, a.operatorPass)
	}

	if !userMatch || !passMatch {
		return ErrOperatorDenied
	}

	return nil
}

// CheckTenantKey resolves a bearer key to its tenant. Every miss is the same
// ErrUnauthorized; the caller cannot tell a malformed key from an unknown
// one.
func (a *Auth) CheckTenantKey(ctx context.Context, key string) (tenantbus.Tenant, error) {
	if key == "" {
		return tenantbus.Tenant{}, ErrMissingKey
	}

	tenant, err := a.tenantBus.QueryByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, tenantbus.ErrNotFound) {
			a.log.Error(ctx, "auth-tenantkey", "err", err)
		}
		return tenantbus.Tenant{}, ErrUnauthorized
	}

	return tenant, nil
}

// CheckCapability reports whether the caller's capability set includes the
// tenant's required capability. Pure function, no I/O.
func (a *Auth) CheckCapability(tenant tenantbus.Tenant, callerCaps []capability.Capability) error {
	for _, c := range callerCaps {
		if c.Equal(tenant.RequiredCapability) {
			return nil
		}
	}

	return fmt.Errorf("missing capability %q", tenant.RequiredCapability)
}

// constantTimeEquals compares two strings without leaking match position
// through early exit; both sides are hashed down to fixed-width digests
// first so length differences leak nothing either.
func constantTimeEquals(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))

	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}
