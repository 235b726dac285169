// Package mailboxfile contains mailbox slot access over the flat-file
// document store. The document store's single writer provides the slot
// atomicity the mailboxbus.Storer contract demands.
package mailboxfile

import (
	"context"
	"fmt"

	"github.com/essentialsgg/relay/business/domain/mailboxbus"
	"github.com/essentialsgg/relay/business/sdk/docstore"
	"github.com/essentialsgg/relay/business/types/commandkind"
	"github.com/essentialsgg/relay/foundation/logger"
)

// Store manages the set of APIs for mailbox document access.
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

// Upsert replaces the (key, kind) slot with the entry.
func (s *Store) Upsert(ctx context.Context, key string, e mailboxbus.Entry) error {
	err := s.ds.Update(func(doc *docstore.Document) error {
		slots, exists := doc.Mailboxes[key]
		if !exists {
			slots = make(map[string]docstore.Entry)
			doc.Mailboxes[key] = slots
		}

		slots[e.Kind.String()] = toDocEntry(e)
		return nil
	})
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	return nil
}

// QueryBySlot gets the current entry for the slot without mutation.
func (s *Store) QueryBySlot(ctx context.Context, key string, kind commandkind.CommandKind) (mailboxbus.Entry, error) {
	var found docstore.Entry

	err := s.ds.View(func(doc *docstore.Document) error {
		e, exists := doc.Mailboxes[key][kind.String()]
		if !exists {
			return mailboxbus.ErrNoEntry
		}
		found = e
		return nil
	})
	if err != nil {
		return mailboxbus.Entry{}, fmt.Errorf("view: %w", err)
	}

	return toBusEntry(found)
}

// TakeBySlot atomically returns and clears the slot.
func (s *Store) TakeBySlot(ctx context.Context, key string, kind commandkind.CommandKind) (mailboxbus.Entry, error) {
	var found docstore.Entry

	err := s.ds.Update(func(doc *docstore.Document) error {
		e, exists := doc.Mailboxes[key][kind.String()]
		if !exists {
			return mailboxbus.ErrNoEntry
		}

		found = e
		delete(doc.Mailboxes[key], kind.String())
		return nil
	})
	if err != nil {
		return mailboxbus.Entry{}, fmt.Errorf("update: %w", err)
	}

	return toBusEntry(found)
}

// =============================================================================

func toDocEntry(bus mailboxbus.Entry) docstore.Entry {
	return docstore.Entry{
		ID:          bus.ID,
		Kind:        bus.Kind.String(),
		Payload:     bus.Payload,
		SubmittedAt: bus.SubmittedAt.UTC(),
	}
}

func toBusEntry(doc docstore.Entry) (mailboxbus.Entry, error) {
	kind, err := commandkind.Parse(doc.Kind)
	if err != nil {
		return mailboxbus.Entry{}, fmt.Errorf("parse kind: %w", err)
	}

	return mailboxbus.Entry{
		Kind:        kind,
		ID:          doc.ID,
		Payload:     doc.Payload,
		SubmittedAt: doc.SubmittedAt,
	}, nil
}
