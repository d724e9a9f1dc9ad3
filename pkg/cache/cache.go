// Package cache stores serialized trees under content addresses.
//
// A [Cache] is a plain byte store with expiry. Backends are [FileCache]
// for the CLI, [RedisCache] and [MongoCache] for shared deployments, and
// [NullCache] to disable caching. [Compressed] wraps any backend with zstd.
//
// [Store] layers trees on top of a Cache: it serializes a tree, keys it by
// the BLAKE3 hash of its canonical encoding, and deserializes it again with
// a registry. Since serialization is deterministic, storing the same tree
// twice yields the same key.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte store with optional expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the value stored under key. A missing or expired entry
	// is a miss (false, nil error).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// KeyPrefix starts every tree key.
const KeyPrefix = "tree:"

// Keyer maps content hashes to storage keys.
type Keyer interface {
	// TreeKey returns the storage key of a tree whose encoding hashes to
	// hash.
	TreeKey(hash string) string
}

// DefaultKeyer stores trees under "tree:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TreeKey implements Keyer.
func (DefaultKeyer) TreeKey(hash string) string { return KeyPrefix + hash }

// Key returns the public content address of an encoded tree.
func Key(data []byte) string { return KeyPrefix + Hash(data) }

// hashOf strips the optional "tree:" prefix from a public key.
func hashOf(key string) string { return strings.TrimPrefix(key, KeyPrefix) }
