// Package capability represents the closed vocabulary of caller permissions
// a tenant may require before accepting command submissions. The frontend
// adapter translates its platform's roles and permission flags into these
// names; the relay only validates membership.
package capability

import "fmt"

// The set of capabilities that can be used.
var (
	CreateInstantInvite = newCapability("CreateInstantInvite")
	KickMembers         = newCapability("KickMembers")
	BanMembers          = newCapability("BanMembers")
	Administrator       = newCapability("Administrator")
	ManageChannels      = newCapability("ManageChannels")
	ManageGuild         = newCapability("ManageGuild")
	AddReactions        = newCapability("AddReactions")
	ViewAuditLog        = newCapability("ViewAuditLog")
	PrioritySpeaker     = newCapability("PrioritySpeaker")
	Stream              = newCapability("Stream")
	ViewChannel         = newCapability("ViewChannel")
	SendMessages        = newCapability("SendMessages")
	SendTTSMessages     = newCapability("SendTTSMessages")
	ManageMessages      = newCapability("ManageMessages")
	EmbedLinks          = newCapability("EmbedLinks")
	AttachFiles         = newCapability("AttachFiles")
	ReadMessageHistory  = newCapability("ReadMessageHistory")
	MentionEveryone     = newCapability("MentionEveryone")
	UseExternalEmojis   = newCapability("UseExternalEmojis")
	ViewGuildInsights   = newCapability("ViewGuildInsights")
	Connect             = newCapability("Connect")
	Speak               = newCapability("Speak")
	MuteMembers         = newCapability("MuteMembers")
	DeafenMembers       = newCapability("DeafenMembers")
	MoveMembers         = newCapability("MoveMembers")
	ChangeNickname      = newCapability("ChangeNickname")
	ManageNicknames     = newCapability("ManageNicknames")
	ManageRoles         = newCapability("ManageRoles")
	ManageWebhooks      = newCapability("ManageWebhooks")
	ManageEvents        = newCapability("ManageEvents")
	ManageThreads       = newCapability("ManageThreads")
	ModerateMembers     = newCapability("ModerateMembers")
)

// =============================================================================

// Set of known capabilities.
var capabilities = make(map[string]Capability)

// Capability represents a capability in the system.
type Capability struct {
	value string
}

func newCapability(capability string) Capability {
	c := Capability{capability}
	capabilities[capability] = c
	return c
}

// String returns the name of the capability.
func (c Capability) String() string {
	return c.value
}

// Equal provides support for the go-cmp package and testing.
func (c Capability) Equal(c2 Capability) bool {
	return c.value == c2.value
}

// MarshalText provides support for logging and any marshal needs.
func (c Capability) MarshalText() ([]byte, error) {
	return []byte(c.value), nil
}

// =============================================================================

// Parse parses the string value and returns a capability if one exists.
func Parse(value string) (Capability, error) {
	capability, exists := capabilities[value]
	if !exists {
		return Capability{}, fmt.Errorf("invalid capability %q", value)
	}

	return capability, nil
}

// MustParse parses the string value and returns a capability if one exists.
// If an error occurs the function panics.
func MustParse(value string) Capability {
	capability, err := Parse(value)
	if err != nil {
		panic(err)
	}

	return capability
}

// ParseSet parses a list of capability names, skipping names outside the
// vocabulary. Caller permission sets come from the frontend verbatim and may
// contain platform values the relay does not track.
func ParseSet(values []string) []Capability {
	set := make([]Capability, 0, len(values))
	for _, v := range values {
		c, err := Parse(v)
		if err != nil {
			continue
		}
		set = append(set, c)
	}
	return set
}
