package token

import (
	"crypto/rand"
	"fmt"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength matches the 8-character short tokens used in share URLs.
const DefaultLength = 8

// New returns a random lowercase alphanumeric token of n characters.
func New(n int) (string, error) {
	if n <= 0 {
		n = DefaultLength
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token generation failed: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
