package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const minTokenBytes = 32

// GenerateSessionToken returns an opaque, URL-safe bearer token built from at
// least 32 bytes of crypto/rand entropy.
func GenerateSessionToken(numBytes int) (string, error) {
	if numBytes < minTokenBytes {
		numBytes = minTokenBytes
	}
	raw := make([]byte, numBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
