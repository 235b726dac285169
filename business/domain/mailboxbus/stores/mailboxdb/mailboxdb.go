// Package mailboxdb contains mailbox slot related CRUD functionality.
package mailboxdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/essentialsgg/relay/business/domain/mailboxbus"
	"github.com/essentialsgg/relay/business/sdk/sqldb"
	"github.com/essentialsgg/relay/business/types/commandkind"
	"github.com/essentialsgg/relay/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for mailbox database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// Upsert replaces the (key, kind) slot with the entry. Last write wins; the
// single statement keeps concurrent submissions from interleaving.
func (s *Store) Upsert(ctx context.Context, key string, e mailboxbus.Entry) error {
	dbE, err := toDBEntry(key, e)
	if err != nil {
		return fmt.Errorf("todbentry: %w", err)
	}

	const q = `
	INSERT INTO "public"."mailbox"
		(api_key, kind, entry_id, payload, submitted_at)
	VALUES
		(:api_key, :kind, :entry_id, :payload, :submitted_at)
	ON CONFLICT (api_key, kind) DO UPDATE SET
		entry_id = EXCLUDED.entry_id,
		payload = EXCLUDED.payload,
		submitted_at = EXCLUDED.submitted_at`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, dbE); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryBySlot gets the current entry for the slot without mutation.
func (s *Store) QueryBySlot(ctx context.Context, key string, kind commandkind.CommandKind) (mailboxbus.Entry, error) {
	data := struct {
		APIKey string `db:"api_key"`
		Kind   string `db:"kind"`
	}{
		APIKey: key,
		Kind:   kind.String(),
	}

	const q = `
	SELECT
		api_key, kind, entry_id, payload, submitted_at
	FROM
		"public"."mailbox"
	WHERE
		api_key = :api_key AND kind = :kind`

	var dbE entryDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbE); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return mailboxbus.Entry{}, fmt.Errorf("db: %w", mailboxbus.ErrNoEntry)
		}
		return mailboxbus.Entry{}, fmt.Errorf("db: %w", err)
	}

	return toBusEntry(dbE)
}

// TakeBySlot atomically returns and clears the slot. DELETE .. RETURNING
// hands the row to exactly one of two racing consumers; the loser sees no
// rows and reports an empty slot.
func (s *Store) TakeBySlot(ctx context.Context, key string, kind commandkind.CommandKind) (mailboxbus.Entry, error) {
	data := struct {
		APIKey string `db:"api_key"`
		Kind   string `db:"kind"`
	}{
		APIKey: key,
		Kind:   kind.String(),
	}

	const q = `
	DELETE FROM
		"public"."mailbox"
	WHERE
		api_key = :api_key AND kind = :kind
	RETURNING
		api_key, kind, entry_id, payload, submitted_at`

	var dbE entryDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbE); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return mailboxbus.Entry{}, fmt.Errorf("db: %w", mailboxbus.ErrNoEntry)
		}
		return mailboxbus.Entry{}, fmt.Errorf("db: %w", err)
	}

	return toBusEntry(dbE)
}
