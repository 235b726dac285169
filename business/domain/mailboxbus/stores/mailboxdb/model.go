package mailboxdb

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/essentialsgg/relay/business/domain/mailboxbus"
	"github.com/essentialsgg/relay/business/types/commandkind"
)

// entryDB represents the structure of the mailbox table in the database.
// Payload is stored as a jsonb column.
type entryDB struct {
	APIKey      string    `db:"api_key"`
	Kind        string    `db:"kind"`
	EntryID     string    `db:"entry_id"`
	Payload     []byte    `db:"payload"`
	SubmittedAt time.Time `db:"submitted_at"`
}

func toDBEntry(key string, bus mailboxbus.Entry) (entryDB, error) {
	payload, err := json.Marshal(bus.Payload)
	if err != nil {
		return entryDB{}, fmt.Errorf("marshal payload: %w", err)
	}

	return entryDB{
		APIKey:      key,
		Kind:        bus.Kind.String(),
		EntryID:     bus.ID,
		Payload:     payload,
		SubmittedAt: bus.SubmittedAt.UTC(),
	}, nil
}

func toBusEntry(db entryDB) (mailboxbus.Entry, error) {
	kind, err := commandkind.Parse(db.Kind)
	if err != nil {
		return mailboxbus.Entry{}, fmt.Errorf("parse kind: %w", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(db.Payload, &payload); err != nil {
		return mailboxbus.Entry{}, fmt.Errorf("unmarshal payload: %w", err)
	}

	return mailboxbus.Entry{
		Kind:        kind,
		ID:          db.EntryID,
		Payload:     payload,
		SubmittedAt: db.SubmittedAt.In(time.Local),
	}, nil
}
