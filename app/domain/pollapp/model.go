package pollapp

import (
	"encoding/json"
	"time"

	"github.com/essentialsgg/relay/business/domain/mailboxbus"
)

// Entry is the wire shape of a mailbox entry. Payload fields are flattened
// into the top-level document, matching what the polling agents already
// parse.
type Entry struct {
	ID          string
	Kind        string
	Payload     map[string]string
	SubmittedAt string
}

// Encode implements the web.Encoder interface.
func (app Entry) Encode() ([]byte, string, error) {
	doc := map[string]any{
		"id":          app.ID,
		"kind":        app.Kind,
		"submittedAt": app.SubmittedAt,
	}
	for k, v := range app.Payload {
		if _, taken := doc[k]; !taken {
			doc[k] = v
		}
	}

	data, err := json.Marshal(doc)
	return data, "application/json", err
}

func toAppEntry(bus mailboxbus.Entry) Entry {
	return Entry{
		ID:          bus.ID,
		Kind:        bus.Kind.String(),
		Payload:     bus.Payload,
		SubmittedAt: bus.SubmittedAt.Format(time.RFC3339),
	}
}

// KeyStatus reports a successful key validation.
type KeyStatus struct {
	Valid              bool   `json:"valid"`
	RequiredCapability string `json:"requiredCapability"`
}

// Encode implements the web.Encoder interface.
func (app KeyStatus) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}
