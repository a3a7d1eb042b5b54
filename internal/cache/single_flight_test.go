package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache() *SingleFlight {
	return NewSingleFlight(
		zerolog.Nop(),
		prometheus.NewCounter(prometheus.CounterOpts{Name: "test_cache_hits"}),
		prometheus.NewCounter(prometheus.CounterOpts{Name: "test_cache_misses"}),
	)
}

func TestSingleFlight_ConcurrentMissesProduceOnce(t *testing.T) {
	c := newTestCache()

	var producerCalls int64
	producer := func(ctx context.Context) (any, error) {
		atomic.AddInt64(&producerCalls, 1)
		time.Sleep(50 * time.Millisecond)
		return "value", nil
	}

	const callers = 50
	results := make([]any, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrCreate(context.Background(), "key", producer, time.Minute)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&producerCalls))
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "value", results[i])
	}
}

func TestSingleFlight_NoNegativeCaching(t *testing.T) {
	c := newTestCache()

	producerErr := errors.New("producer failed")
	var calls int64
	producer := func(ctx context.Context) (any, error) {
		if atomic.AddInt64(&calls, 1) == 1 {
			return nil, producerErr
		}
		return "recovered", nil
	}

	_, err := c.GetOrCreate(context.Background(), "key", producer, time.Minute)
	require.ErrorIs(t, err, producerErr)

	// The failure must not be cached; a later caller gets a fresh attempt.
	v, err := c.GetOrCreate(context.Background(), "key", producer, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestSingleFlight_TTLExpiry(t *testing.T) {
	c := newTestCache()

	c.Set("key", "stale", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok, "expired entry must behave as a miss")

	var calls int64
	v, err := c.GetOrCreate(context.Background(), "key", func(ctx context.Context) (any, error) {
		atomic.AddInt64(&calls, 1)
		return "fresh", nil
	}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestSingleFlight_NoExpiryWhenTTLZero(t *testing.T) {
	c := newTestCache()

	c.Set("key", "forever", 0)
	time.Sleep(15 * time.Millisecond)

	v, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "forever", v)
}

func TestSingleFlight_CancelledCallerDoesNotAbortPopulation(t *testing.T) {
	c := newTestCache()

	started := make(chan struct{})
	producer := func(ctx context.Context) (any, error) {
		close(started)
		time.Sleep(60 * time.Millisecond)
		return "value", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.GetOrCreate(ctx, "key", producer, time.Minute)
	require.ErrorIs(t, err, context.Canceled)

	// The population keeps running and still lands in the store.
	require.Eventually(t, func() bool {
		_, ok := c.Get("key")
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestSingleFlight_SetGetRemove(t *testing.T) {
	c := newTestCache()

	_, ok := c.Get("key")
	assert.False(t, ok)

	c.Set("key", 42, time.Minute)
	v, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	c.Remove("key")
	_, ok = c.Get("key")
	assert.False(t, ok)
}
