package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Validate checks data against an expected hex digest. An empty expected
// digest means the caller did not request verification.
func Validate(data []byte, expected string) error {
	if expected == "" {
		return nil
	}
	if got := Sum(data); got != expected {
		return fmt.Errorf("checksum mismatch: got %s, want %s", got, expected)
	}
	return nil
}
