package cache

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"fxgateway/internal/domain/ports"
)

type entry struct {
	value     any
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// SingleFlight is an in-process compute-once cache. Concurrent misses on the
// same key trigger exactly one producer execution; all waiters share its
// outcome. Failures are never cached.
type SingleFlight struct {
	mu    sync.RWMutex
	items map[string]entry

	group singleflight.Group

	log    zerolog.Logger
	hits   prometheus.Counter
	misses prometheus.Counter
}

var _ ports.Cache = (*SingleFlight)(nil)

func NewSingleFlight(log zerolog.Logger, hits, misses prometheus.Counter) *SingleFlight {
	return &SingleFlight{
		items:  make(map[string]entry),
		log:    log.With().Str("component", "cache").Logger(),
		hits:   hits,
		misses: misses,
	}
}

// GetOrCreate returns the live value for key, invoking producer at most once
// across concurrent callers when it is absent or expired. A cancelled caller
// stops waiting, but the in-flight population keeps running and its result is
// still stored for later callers.
func (c *SingleFlight) GetOrCreate(ctx context.Context, key string, producer ports.Producer, ttl time.Duration) (any, error) {
	if v, ok := c.Get(key); ok {
		c.hits.Inc()
		return v, nil
	}
	c.misses.Inc()

	ch := c.group.DoChan(key, func() (any, error) {
		// Another flight may have populated the key while this caller was
		// queued behind it.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := producer(context.WithoutCancel(ctx))
		if err != nil {
			// Not cached, so the next caller gets a fresh attempt.
			c.log.Debug().Str("key", key).Err(err).Msg("producer failed")
			return nil, err
		}
		c.Set(key, v, ttl)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *SingleFlight) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if e.expired(time.Now()) {
		c.Remove(key)
		return nil, false
	}
	return e.value, true
}

func (c *SingleFlight) Set(key string, value any, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
}

func (c *SingleFlight) Remove(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}
