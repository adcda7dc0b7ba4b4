// Package token generates the donor tokens handed to browsers in place of
// raw donor ids.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DonorHash returns hex(sha256(donorID || secret)). The result is
// deterministic: anyone holding the secret can recompute it for every donor
// id, so it hides ids from casual inspection but is not an anonymization
// primitive and must not be treated as one.
func DonorHash(donorID, secret string) string {
	sum := sha256.Sum256([]byte(donorID + secret))
	return hex.EncodeToString(sum[:])
}

// Random generates a cryptographically random 64-character hex token.
func Random() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate donor token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
