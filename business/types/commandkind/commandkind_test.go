package commandkind_test

import (
	"testing"

	"github.com/essentialsgg/relay/business/types/commandkind"
)

func Test_Parse(t *testing.T) {
	kind, err := commandkind.Parse("broadcast")
	if err != nil {
		t.Fatalf("Should parse a known kind : %s", err)
	}
	if !kind.Equal(commandkind.Broadcast) {
		t.Error("Should parse to the broadcast kind")
	}

	if _, err := commandkind.Parse("restart"); err == nil {
		t.Error("Should reject an unknown kind")
	}
}

func Test_Semantics(t *testing.T) {
	if commandkind.Broadcast.Consuming() {
		t.Error("Should treat broadcast as a peek kind")
	}

	for _, kind := range []commandkind.CommandKind{commandkind.Kick, commandkind.ServerBan, commandkind.PermBan, commandkind.Shutdown} {
		if !kind.Consuming() {
			t.Errorf("Should treat %s as a consume kind", kind)
		}
	}
}

func Test_RequiredFields(t *testing.T) {
	tests := []struct {
		kind commandkind.CommandKind
		want []string
	}{
		{commandkind.Broadcast, []string{"type", "title", "message"}},
		{commandkind.Kick, []string{"targetUser"}},
		{commandkind.Shutdown, []string{"jobId"}},
	}

	for _, tt := range tests {
		got := tt.kind.RequiredFields()
		if len(got) != len(tt.want) {
			t.Errorf("Should have %d required fields for %s : got %d", len(tt.want), tt.kind, len(got))
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Should require %q for %s : got %q", tt.want[i], tt.kind, got[i])
			}
		}
	}
}
