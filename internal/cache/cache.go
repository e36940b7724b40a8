// Package cache provides the layered byte cache used for raw API payloads
// and rendered analysis responses.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key from logical parts, e.g.
// Key("payload", "/api/versioner/v1/titles.json")
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "regscope:v1:" + hex.EncodeToString(hash[:])
}
