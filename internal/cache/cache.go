// Package cache stores remote classification responses so re-analyzing a
// transcript (or recurring utterances across transcripts) does not repeat
// remote calls. It never persists analysis results themselves.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for response caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from its parts (operation, provider, model,
// utterance text). Parts are hashed so raw transcript text never appears in
// cache file names.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "nirva:v1:" + hex.EncodeToString(hash[:])
}
