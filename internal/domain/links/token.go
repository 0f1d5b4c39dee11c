package links

import (
	"crypto/rand"
	"encoding/base64"
)

// NewToken returns an unguessable URL-safe token. 32 random bytes keeps it
// independent of asset ids and timestamps.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
