package resilience

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen signals that the breaker rejected the call without invoking
// the operation, so callers can tell "upstream is down" from "request was bad".
var ErrCircuitOpen = errors.New("circuit open")

// Operation is a single outbound call classified as success or failure.
type Operation func(ctx context.Context) (any, error)

// IsRetryable tells transient failures apart from persistent ones.
type IsRetryable func(error) bool

// StatusCoder is implemented by errors that carry an upstream status code.
type StatusCoder interface {
	StatusCode() int
}

type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// BackoffUnit scales the exponential delays: retry n waits 2^n units.
	BackoffUnit time.Duration

	FailureRatio      float64
	SamplingWindow    time.Duration
	MinimumThroughput uint32
	BreakDuration     time.Duration

	// IsRetryable overrides DefaultIsRetryable when set.
	IsRetryable IsRetryable

	// OnAttempt and OnFailure are per-attempt hooks, used for metrics.
	OnAttempt func()
	OnFailure func()
	// OnStateChange observes breaker transitions ("closed", "half-open", "open").
	OnStateChange func(from, to string)
}

// DefaultConfig carries the production policy: 3 retries with 2s/4s/8s delays,
// breaker opening at a 50% failure ratio over 1 minute with at least 10
// sampled calls, 30s break.
func DefaultConfig() Config {
	return Config{
		MaxRetries:        3,
		BackoffUnit:       time.Second,
		FailureRatio:      0.5,
		SamplingWindow:    time.Minute,
		MinimumThroughput: 10,
		BreakDuration:     30 * time.Second,
	}
}

// Executor wraps a single upstream relationship with retry and a circuit
// breaker. The breaker observes every attempt the retry loop makes.
type Executor struct {
	cfg     Config
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

func NewExecutor(name string, cfg Config, log zerolog.Logger) *Executor {
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = time.Second
	}
	if cfg.IsRetryable == nil {
		cfg.IsRetryable = DefaultIsRetryable
	}

	e := &Executor{
		cfg: cfg,
		log: log.With().Str("component", "resilience").Str("name", name).Logger(),
	}

	e.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1, // one trial call in half-open
		Interval:    cfg.SamplingWindow,
		Timeout:     cfg.BreakDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinimumThroughput {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit state changed")
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(from.String(), to.String())
			}
		},
	})

	return e
}

// Execute runs op with retry and circuit breaking, returning either a
// successful result or exactly one terminal failure. A circuit-open rejection
// is not retried: retrying a call the breaker refuses to send cannot succeed
// before the break elapses, so the executor fails fast with ErrCircuitOpen.
func (e *Executor) Execute(ctx context.Context, op Operation) (any, error) {
	var result any
	attempt := 0

	run := func() error {
		attempt++
		if e.cfg.OnAttempt != nil {
			e.cfg.OnAttempt()
		}

		v, err := e.breaker.Execute(func() (any, error) {
			return op(ctx)
		})
		if err != nil {
			if e.cfg.OnFailure != nil {
				e.cfg.OnFailure()
			}
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if !e.cfg.IsRetryable(err) {
				return backoff.Permanent(err)
			}
			e.log.Debug().Int("attempt", attempt).Err(err).Msg("retryable failure")
			return err
		}

		result = v
		return nil
	}

	err := backoff.Retry(run, backoff.WithContext(e.newBackOff(), ctx))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// newBackOff yields delays of 2, 4, 8, ... backoff units, unjittered.
func (e *Executor) newBackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 2 * e.cfg.BackoffUnit
	eb.RandomizationFactor = 0
	eb.Multiplier = 2
	eb.MaxInterval = 1024 * e.cfg.BackoffUnit
	eb.MaxElapsedTime = 0
	eb.Reset()
	return backoff.WithMaxRetries(eb, uint64(e.cfg.MaxRetries))
}

// DefaultIsRetryable treats connection-level failures, timeouts and
// 429/408/5xx upstream statuses as transient.
func DefaultIsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		code := sc.StatusCode()
		return code == http.StatusTooManyRequests ||
			code == http.StatusRequestTimeout ||
			code >= http.StatusInternalServerError
	}
	return false
}
