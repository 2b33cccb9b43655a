package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateRandomString produces a cryptographically random base64url string of n bytes.
func GenerateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateVotingToken generates an opaque voting token of n random bytes
// (6 bytes = 8 chars base64url, short enough to type from a printed card).
func GenerateVotingToken(n int) (string, error) {
	return GenerateRandomString(n)
}
