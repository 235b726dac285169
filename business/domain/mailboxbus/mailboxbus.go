// Package mailboxbus provides business access to the per-tenant command
// mailboxes. Each (bearer key, command kind) pair owns a single slot holding
// the most recently submitted command; a second submission before the first
// is polled discards the first. That loss is the contract, not a bug.
package mailboxbus

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/types/commandkind"
	"github.com/essentialsgg/relay/foundation/logger"
	"github.com/essentialsgg/relay/foundation/otel"
)

var (
	ErrNoEntry        = errors.New("no pending command")
	ErrTenantNotFound = errors.New("tenant not found")
	ErrInvalidPayload = errors.New("payload missing required fields")
)

// Storer defines the behavior required by the mailboxbus to persist slots.
// Upsert must atomically replace the (key, kind) slot; TakeBySlot must
// atomically return and clear it so two racing consumers cannot both win
// the same entry.
type Storer interface {
	Upsert(ctx context.Context, key string, e Entry) error
	QueryBySlot(ctx context.Context, key string, kind commandkind.CommandKind) (Entry, error)
	TakeBySlot(ctx context.Context, key string, kind commandkind.CommandKind) (Entry, error)
}

// Core manages the set of APIs for mailbox access.
type Core struct {
	storer   Storer
	registry *tenantbus.Core
	log      *logger.Logger
}

// NewCore constructs a core for mailbox access.
func NewCore(log *logger.Logger, registry *tenantbus.Core, storer Storer) *Core {
	return &Core{
		storer:   storer,
		registry: registry,
		log:      log,
	}
}

// Submit replaces the (key, kind) slot with a new entry and returns the
// entry id. The id is derived from the wall clock at submission; ties are
// acceptable since only the latest entry per slot is retained.
func (c *Core) Submit(ctx context.Context, key string, kind commandkind.CommandKind, payload map[string]string) (string, error) {
	ctx, span := otel.AddSpan(ctx, "business.mailboxbus.submit")
	defer span.End()

	if _, err := c.registry.QueryByKey(ctx, key); err != nil {
		if errors.Is(err, tenantbus.ErrNotFound) {
			return "", ErrTenantNotFound
		}
		return "", fmt.Errorf("query tenant: %w", err)
	}

	for _, field := range kind.RequiredFields() {
		if payload[field] == "" {
			return "", fmt.Errorf("%w: %s", ErrInvalidPayload, field)
		}
	}

	now := time.Now()

	e := Entry{
		Kind:        kind,
		ID:          strconv.FormatInt(now.UnixMilli(), 10),
		Payload:     payload,
		SubmittedAt: now,
	}

	if err := c.storer.Upsert(ctx, key, e); err != nil {
		return "", fmt.Errorf("upsert: kind[%s]: %w", kind, err)
	}

	return e.ID, nil
}

// Peek returns the current entry without mutating the slot.
func (c *Core) Peek(ctx context.Context, key string, kind commandkind.CommandKind) (Entry, error) {
	ctx, span := otel.AddSpan(ctx, "business.mailboxbus.peek")
	defer span.End()

	e, err := c.storer.QueryBySlot(ctx, key, kind)
	if err != nil {
		return Entry{}, fmt.Errorf("query slot: kind[%s]: %w", kind, err)
	}

	return e, nil
}

// Consume atomically returns and clears the current entry. Of two concurrent
// consumers exactly one gets the entry; the other observes ErrNoEntry.
func (c *Core) Consume(ctx context.Context, key string, kind commandkind.CommandKind) (Entry, error) {
	ctx, span := otel.AddSpan(ctx, "business.mailboxbus.consume")
	defer span.End()

	e, err := c.storer.TakeBySlot(ctx, key, kind)
	if err != nil {
		return Entry{}, fmt.Errorf("take slot: kind[%s]: %w", kind, err)
	}

	return e, nil
}

// Poll reads the slot with the kind's configured semantics: peek for
// broadcast-style kinds, consume for at-most-once kinds.
func (c *Core) Poll(ctx context.Context, key string, kind commandkind.CommandKind) (Entry, error) {
	if kind.Consuming() {
		return c.Consume(ctx, key, kind)
	}

	return c.Peek(ctx, key, kind)
}
