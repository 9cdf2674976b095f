// Package xcache wraps the gocache cache stack behind a small typed
// surface. Only the in-memory and noop backends are wired; the credential
// lookup path is the single consumer.
package xcache

import (
	"time"

	cachelib "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	gocache_store "github.com/eko/gocache/store/go_cache/v4"
	gocache "github.com/patrickmn/go-cache"
)

// Cache is an alias to the gocache CacheInterface for convenience.
type Cache[T any] = cachelib.CacheInterface[T]

// NewMemory creates a pure in-memory cache using patrickmn/go-cache as the
// backend, with the given default expiration and cleanup interval.
func NewMemory[T any](defaultExpiration, cleanupInterval time.Duration) Cache[T] {
	client := gocache.New(defaultExpiration, cleanupInterval)
	memStore := gocache_store.NewGoCache(client, store.WithExpiration(defaultExpiration))

	return cachelib.New[T](memStore)
}

// NewFromConfig builds a typed cache from the given Config. An empty or
// unknown mode yields a noop cache that does nothing.
func NewFromConfig[T any](cfg Config) Cache[T] {
	switch cfg.Mode {
	case ModeMemory:
		expiration := defaultIfZero(cfg.Memory.Expiration, 5*time.Minute)
		cleanupInterval := defaultIfZero(cfg.Memory.CleanupInterval, 10*time.Minute)

		return NewMemory[T](expiration, cleanupInterval)
	default:
		return NewNoop[T]()
	}
}

func defaultIfZero(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}

	return d
}
