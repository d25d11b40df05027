package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewOneTimeToken: 32 случайных байта в hex (64 символа).
func NewOneTimeToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
