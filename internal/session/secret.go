package session

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecret returns 32 random bytes, hex encoded, for use as a CSRF key.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// DecodeSecret turns a configured secret into key bytes. Hex strings are
// decoded; anything else is used as raw bytes.
func DecodeSecret(secret string) []byte {
	if decoded, err := hex.DecodeString(secret); err == nil {
		return decoded
	}
	return []byte(secret)
}
