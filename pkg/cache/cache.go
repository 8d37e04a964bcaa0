// Package cache stores normalized record sets between CLI runs.
//
// Loading a large barrier database means reading and joining six tables.
// The result depends only on the database bytes and the source
// configuration, so the pipeline caches the encoded [records.Set] under a
// key derived from both. [FileCache] keeps entries under the user cache
// directory; [NullCache] disables caching.
//
// Keys are produced by a [Keyer]:
//
//	k := cache.NewDefaultKeyer()
//	key := k.RecordsKey(dbHash, cfg.Source)
//
// [records.Set]: github.com/matzehuels/hydronet/pkg/records
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// TTLRecords is the default lifetime of a cached record set.
const TTLRecords = 7 * 24 * time.Hour
