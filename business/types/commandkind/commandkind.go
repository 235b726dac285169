// Package commandkind represents the kinds of operator commands the relay
// carries, along with each kind's delivery semantics.
package commandkind

import "fmt"

// The set of command kinds that can be used. Broadcast is a peek kind: a
// machine may re-read the latest announcement indefinitely. Every other kind
// is consuming: a poll clears the slot so the command fires at most once per
// submission.
var (
	Broadcast = newCommandKind("broadcast", false, "type", "title", "message")
	Kick      = newCommandKind("kick", true, "targetUser")
	ServerBan = newCommandKind("serverBan", true, "targetUser")
	PermBan   = newCommandKind("permBan", true, "targetUser")
	Shutdown  = newCommandKind("shutdown", true, "jobId")
)

// =============================================================================

// Set of known command kinds.
var commandKinds = make(map[string]CommandKind)

// CommandKind represents a command kind in the system.
type CommandKind struct {
	value     string
	consuming bool
	required  []string
}

func newCommandKind(kind string, consuming bool, required ...string) CommandKind {
	ck := CommandKind{value: kind, consuming: consuming, required: required}
	commandKinds[kind] = ck
	return ck
}

// String returns the name of the command kind.
func (ck CommandKind) String() string {
	return ck.value
}

// Consuming reports whether a poll of this kind clears the slot.
func (ck CommandKind) Consuming() bool {
	return ck.consuming
}

// RequiredFields returns the payload fields a submission of this kind must
// carry.
func (ck CommandKind) RequiredFields() []string {
	return ck.required
}

// Equal provides support for the go-cmp package and testing.
func (ck CommandKind) Equal(ck2 CommandKind) bool {
	return ck.value == ck2.value
}

// MarshalText provides support for logging and any marshal needs.
func (ck CommandKind) MarshalText() ([]byte, error) {
	return []byte(ck.value), nil
}

// =============================================================================

// All returns the known command kinds.
func All() []CommandKind {
	ks := make([]CommandKind, 0, len(commandKinds))
	for _, ck := range commandKinds {
		ks = append(ks, ck)
	}
	return ks
}

// Parse parses the string value and returns a command kind if one exists.
func Parse(value string) (CommandKind, error) {
	kind, exists := commandKinds[value]
	if !exists {
		return CommandKind{}, fmt.Errorf("invalid command kind %q", value)
	}

	return kind, nil
}

// MustParse parses the string value and returns a command kind if one
// exists. If an error occurs the function panics.
func MustParse(value string) CommandKind {
	kind, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return kind
}
