// Package keygen produces the opaque bearer keys that authenticate tenants.
package keygen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// KeyBytes is the number of random bytes in a key. 24 bytes gives 192 bits
// of entropy, rendered as 48 hex characters.
const KeyBytes = 24

// KeyLength is the length of a generated key string.
const KeyLength = KeyBytes * 2

// Generate returns a new bearer key. The key is drawn entirely from the
// CSPRNG; it carries no timestamp or sequence component.
func Generate() (string, error) {
	buf := make([]byte, KeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
