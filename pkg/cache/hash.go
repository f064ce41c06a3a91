package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a namespaced cache key, "prefix:" followed by the SHA-256
// of the JSON-encoded parts. Charts and datasets share one key space, so
// the prefix keeps them apart.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. The pipeline uses it to fingerprint
// a normalized statistics file set.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
