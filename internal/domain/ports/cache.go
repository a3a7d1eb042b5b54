package ports

import (
	"context"
	"time"
)

// Producer populates a cache key on a miss. It runs at most once per key at a
// time; concurrent callers for the same key share its outcome.
type Producer func(ctx context.Context) (any, error)

// Cache is a concurrency-safe compute-once store. A zero ttl means no expiry.
type Cache interface {
	GetOrCreate(ctx context.Context, key string, producer Producer, ttl time.Duration) (any, error)
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Remove(key string)
}
