package mailboxbus

import (
	"time"

	"github.com/essentialsgg/relay/business/types/commandkind"
)

// Entry represents the single entry a mailbox slot holds. Payload carries
// the kind-specific fields, e.g. title/message for a broadcast or
// targetUser/reason for a kick.
type Entry struct {
	Kind        commandkind.CommandKind
	ID          string
	Payload     map[string]string
	SubmittedAt time.Time
}
