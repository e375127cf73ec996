package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short hex fingerprint of a secret such as a bearer
// token, safe to print in logs.
//
// It hashes with SHA-256 and truncates to 6 bytes (12 hex chars).
func Fingerprint(secret []byte) string {
	if len(secret) == 0 {
		return ""
	}
	sum := sha256.Sum256(secret)
	return hex.EncodeToString(sum[:6])
}
