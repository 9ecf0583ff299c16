package util

import (
	"crypto/rand"
	"encoding/hex"
)

func NewID(prefix string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}

// NewAPIKey returns a workspace publishable key. The "rd_live_" prefix is
// part of the public key format and must not change.
func NewAPIKey() string {
	bytes := make([]byte, 24)
	_, _ = rand.Read(bytes)
	return "rd_live_" + hex.EncodeToString(bytes)
}
