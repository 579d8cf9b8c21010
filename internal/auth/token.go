package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenBytes is the entropy of a session token before encoding.
const tokenBytes = 32

// NewToken returns an unguessable opaque session token.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
