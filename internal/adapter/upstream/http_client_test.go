package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxgateway/internal/domain/model"
)

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("frankfurter")
	require.NoError(t, err)
	assert.Equal(t, ProviderFrankfurter, p)

	p, err = ParseProvider("exchangerate-host")
	require.NoError(t, err)
	assert.Equal(t, ProviderExchangeRateHost, p)

	_, err = ParseProvider("definitely-not-a-provider")
	assert.Error(t, err)
}

func TestClient_FetchLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("base"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"EUR","date":"2025-08-22","rates":{"usd":1.09,"GBP":0.85}}`))
	}))
	defer srv.Close()

	client := NewClient(ProviderFrankfurter, srv.URL, "", 5*time.Second, zerolog.Nop())

	snapshot, err := client.FetchLatest(context.Background(), model.EUR)
	require.NoError(t, err)

	assert.Equal(t, model.EUR, snapshot.Base)
	assert.Equal(t, "2025-08-22", snapshot.Date.Format("2006-01-02"))
	// Quote codes are normalized to upper case.
	assert.InDelta(t, 1.09, snapshot.Rates[model.USD], 1e-9)
	assert.InDelta(t, 0.85, snapshot.Rates[model.GBP], 1e-9)
}

func TestClient_FetchHistorical(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2025-08-01..2025-08-03", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("base"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{
			"2025-08-01":{"EUR":0.91},
			"2025-08-02":{"EUR":0.92},
			"2025-08-03":{"EUR":0.93}
		}}`))
	}))
	defer srv.Close()

	client := NewClient(ProviderFrankfurter, srv.URL, "", 5*time.Second, zerolog.Nop())

	series, err := client.FetchHistorical(
		context.Background(),
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC),
		model.USD,
	)
	require.NoError(t, err)

	require.Len(t, series, 3)
	assert.InDelta(t, 0.92, series["2025-08-02"][model.EUR], 1e-9)
}

func TestClient_StatusErrorCarriesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(ProviderFrankfurter, srv.URL, "", 5*time.Second, zerolog.Nop())

	_, err := client.FetchLatest(context.Background(), model.EUR)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode())
}

func TestClient_APIKeyAppended(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
		_, _ = w.Write([]byte(`{"base":"EUR","date":"2025-08-22","rates":{}}`))
	}))
	defer srv.Close()

	client := NewClient(ProviderExchangeRateHost, srv.URL, "secret", 5*time.Second, zerolog.Nop())

	_, err := client.FetchLatest(context.Background(), model.EUR)
	require.NoError(t, err)
}
