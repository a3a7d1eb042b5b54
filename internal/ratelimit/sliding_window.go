package ratelimit

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrRateLimitExceeded signals admission rejection. It is a normal outcome,
// never retried internally.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

const (
	DefaultLimit  = 100
	DefaultWindow = 60 * time.Second
)

// SlidingWindow admits at most limit requests per client within a trailing
// window. Timestamps older than the window are evicted lazily at check time.
type SlidingWindow struct {
	limit  int
	window time.Duration
	log    zerolog.Logger

	mu      sync.Mutex
	clients map[string]*clientWindow
}

type clientWindow struct {
	mu         sync.Mutex
	timestamps []time.Time
}

func NewSlidingWindow(limit int, window time.Duration, log zerolog.Logger) *SlidingWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &SlidingWindow{
		limit:   limit,
		window:  window,
		log:     log.With().Str("component", "ratelimit").Logger(),
		clients: make(map[string]*clientWindow),
	}
}

// Admit reports whether a request from clientID may proceed. A rejected
// request does not consume window capacity.
func (l *SlidingWindow) Admit(clientID string) bool {
	cw := l.clientWindow(clientID)

	cw.mu.Lock()
	defer cw.mu.Unlock()

	cutoff := time.Now().Add(-l.window)
	live := cw.timestamps[:0]
	for _, ts := range cw.timestamps {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}
	cw.timestamps = live

	if len(cw.timestamps) >= l.limit {
		l.log.Debug().Str("client_id", clientID).Int("count", len(cw.timestamps)).Msg("request rejected")
		return false
	}

	cw.timestamps = append(cw.timestamps, time.Now())
	return true
}

func (l *SlidingWindow) clientWindow(clientID string) *clientWindow {
	l.mu.Lock()
	defer l.mu.Unlock()

	cw, ok := l.clients[clientID]
	if !ok {
		cw = &clientWindow{}
		l.clients[clientID] = cw
	}
	return cw
}
