package keygen_test

import (
	"testing"

	"github.com/essentialsgg/relay/foundation/keygen"
)

func Test_Generate(t *testing.T) {
	key, err := keygen.Generate()
	if err != nil {
		t.Fatalf("Should be able to generate a key : %s", err)
	}

	if len(key) != keygen.KeyLength {
		t.Errorf("Should have length %d : got %d", keygen.KeyLength, len(key))
	}

	for _, r := range key {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			t.Fatalf("Should be lowercase hex : got rune %q", r)
		}
	}
}

func Test_GenerateUnique(t *testing.T) {
	const n = 1000

	seen := make(map[string]struct{}, n)

	for i := 0; i < n; i++ {
		key, err := keygen.Generate()
		if err != nil {
			t.Fatalf("Should be able to generate key %d : %s", i, err)
		}

		if _, exists := seen[key]; exists {
			t.Fatalf("Should never produce a duplicate key : %q", key)
		}
		seen[key] = struct{}{}
	}
}
