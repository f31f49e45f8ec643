// Package cache stores computed funnel geometry and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [NullCache] never stores anything (--no-cache)
//   - [FileCache] keeps entries under a directory for CLI use
//   - [RedisCache] shares entries between API server instances
//
// Keys are produced by a [Keyer] from content hashes, so identical input and
// options map to the same entry regardless of where the table came from.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cache entries.
const (
	GeometryTTL = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	// Expired and unreadable entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache misses on every read and drops every write. It backs --no-cache
// and the "none" backend.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
