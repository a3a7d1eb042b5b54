package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"fxgateway/internal/metrics"
	"fxgateway/internal/ratelimit"
)

// promauto registers against the default registry, so the metrics are built
// once for the whole test binary.
var testMetrics = metrics.NewMetrics()

func TestClientID(t *testing.T) {
	tests := []struct {
		name       string
		principal  string
		remoteAddr string
		want       string
	}{
		{name: "principal wins over address", principal: "user-42", remoteAddr: "10.0.0.1:1234", want: "user-42"},
		{name: "remote host without port", remoteAddr: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "unsplittable address used as-is", remoteAddr: "10.0.0.1", want: "10.0.0.1"},
		{name: "fixed bucket when nothing known", want: "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/rates/latest", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.principal != "" {
				r.Header.Set(PrincipalHeader, tc.principal)
			}
			assert.Equal(t, tc.want, ClientID(r))
		})
	}
}

func TestAdmissionLimit(t *testing.T) {
	limiter := ratelimit.NewSlidingWindow(2, time.Minute, zerolog.Nop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AdmissionLimit(limiter, testMetrics, zerolog.Nop())(next)

	status := func(principal string) int {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/rates/latest", nil)
		r.Header.Set(PrincipalHeader, principal)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, status("client-a"))
	assert.Equal(t, http.StatusOK, status("client-a"))
	assert.Equal(t, http.StatusTooManyRequests, status("client-a"))

	// A different client is unaffected.
	assert.Equal(t, http.StatusOK, status("client-b"))
}

func TestRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	RequestID(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-Id", "given-id")
	w = httptest.NewRecorder()
	RequestID(next).ServeHTTP(w, r)
	assert.Equal(t, "given-id", w.Header().Get("X-Request-Id"))
}
