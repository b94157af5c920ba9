package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the SHA-256 of data as a 64-character hex string. Stage
// inputs (spec text, graph JSON, layout JSON) are hashed with this to form
// content-addressed cache keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a stage-prefixed key from arbitrary components. The format
// is stage:hash(parts...), so keys from different pipeline stages never
// collide even when their inputs hash the same.
func hashKey(stage string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return stage + ":" + Hash(data)
}
