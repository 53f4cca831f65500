// Package cache provides the key-value stores behind the cache-aside fetcher.
//
// Every backend stores opaque JSON documents under flat string keys with an
// optional time-to-live. The fetcher treats the cache as an optimization
// only: any error returned here is logged and handled as a miss or a
// no-op write, never surfaced to callers.
//
// # Backends
//
//   - [RedisCache]: Redis via go-redis, the production backend
//   - [MemoryCache]: in-process map with an injectable clock
//   - [FileCache]: one file per key under a directory, for the CLI
//   - [NullCache]: stores nothing
//
// # Keys
//
// Keys are built by a [Keyer], never by string concatenation at the call
// site, so the same logical request always maps to the same key:
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "tmio:")
//	k.Key("player", id)             // tmio:player:<id>
//	k.Key("trophies", "top", page)  // tmio:trophies:top:<page>
package cache

import (
	"context"
	"time"
)

// Cache is a key-value store with per-entry expiry.
//
// A ttl of zero or less stores the entry without expiry. Get reports a
// miss with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every key with a prefix.
// An empty prefix clears everything the backend owns.
type Clearer interface {
	Clear(ctx context.Context, prefix string) (int, error)
}
