package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// GenRandomToken returns n random bytes hex encoded.
func GenRandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
