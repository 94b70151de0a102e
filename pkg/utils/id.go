package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// ShortID returns a URL-safe random identifier built from n random bytes.
// Six bytes give an 8 character id, which is plenty for player handles.
func ShortID(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("short id: invalid length %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("short id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
