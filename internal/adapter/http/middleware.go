package http

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fxgateway/internal/metrics"
	"fxgateway/internal/ratelimit"
)

// PrincipalHeader carries the authenticated principal identifier, injected by
// the auth layer in front of this service.
const PrincipalHeader = "X-Principal-Id"

const requestIDHeader = "X-Request-Id"

// ClientID resolves the throttling identity for a request: authenticated
// principal first, then network origin, then a fixed bucket. The ordering
// matters so unauthenticated callers are not all throttled as one client.
func ClientID(r *http.Request) string {
	if principal := r.Header.Get(PrincipalHeader); principal != "" {
		return principal
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// RequestID assigns a request id when the caller did not send one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// AdmissionLimit gates every request through the sliding-window limiter before
// any other processing.
func AdmissionLimit(limiter *ratelimit.SlidingWindow, m *metrics.Metrics, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := ClientID(r)
			if !limiter.Admit(clientID) {
				m.AdmissionRejectedTotal.Inc()
				log.Warn().Str("client_id", clientID).Str("path", r.URL.Path).Msg("rate limit exceeded")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprintf(w, `{"success":false,"error":%q}`+"\n", ratelimit.ErrRateLimitExceeded.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs every request and records the HTTP metrics.
func RequestLogger(log zerolog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			m.HTTPRequestDuration.WithLabelValues(r.URL.Path, r.Method).Observe(duration.Seconds())
			m.HTTPRequestsTotal.WithLabelValues(r.URL.Path, r.Method, fmt.Sprintf("%dxx", sw.status/100)).Inc()

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", w.Header().Get(requestIDHeader)).
				Int("status", sw.status).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Msg("http request")
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
