// Package idhash computes deterministic content-derived identifiers.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeItemID computes a deterministic item_id using SHA256.
// Formula: SHA256(name|category|unit)
// Returns hex-encoded hash (64 characters). The same catalog entry always
// hashes to the same id across scraper runs and reingestion.
func ComputeItemID(name, category, unit string) string {
	data := fmt.Sprintf("%s|%s|%s", name, category, unit)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
