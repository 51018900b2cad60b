package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSessionKey returns a filesystem-safe identifier for a session ID.
func HashSessionKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashBytes returns the hex SHA-256 of a payload, used for document dedup and audit.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
