package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"fxgateway/internal/domain/model"
	"fxgateway/internal/domain/ports"
	"fxgateway/pkg/dates"
)

// StatusError is returned for non-2xx upstream responses. It carries the
// status code so the resilience layer can classify it.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d for %s", e.Code, e.URL)
}

func (e *StatusError) StatusCode() int {
	return e.Code
}

// Client fetches rate data over HTTP from the configured provider.
type Client struct {
	provider   Provider
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ ports.UpstreamClient = (*Client)(nil)

func NewClient(provider Provider, baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = provider.DefaultBaseURL()
	}
	return &Client{
		provider: provider,
		baseURL:  baseURL,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("component", "upstream").Str("provider", provider.String()).Logger(),
	}
}

type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

func (c *Client) FetchLatest(ctx context.Context, base model.Currency) (*model.ExchangeSnapshot, error) {
	u := fmt.Sprintf("%s/latest?%s", c.baseURL, c.query(base))

	var resp latestResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	date, err := dates.Parse(resp.Date)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot date %q: %w", resp.Date, err)
	}

	return &model.ExchangeSnapshot{
		Base:  base,
		Date:  date,
		Rates: toCurrencyRates(resp.Rates),
	}, nil
}

type historicalResponse struct {
	Base  string                        `json:"base"`
	Rates map[string]map[string]float64 `json:"rates"`
}

func (c *Client) FetchHistorical(ctx context.Context, start, end time.Time, base model.Currency) (map[string]map[model.Currency]float64, error) {
	u := fmt.Sprintf("%s/%s..%s?%s",
		c.baseURL,
		dates.Format(start),
		dates.Format(end),
		c.query(base),
	)

	var resp historicalResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	series := make(map[string]map[model.Currency]float64, len(resp.Rates))
	for day, rates := range resp.Rates {
		series[day] = toCurrencyRates(rates)
	}
	return series, nil
}

func (c *Client) query(base model.Currency) string {
	q := url.Values{}
	q.Set("base", base.String())
	if c.apiKey != "" {
		q.Set("access_key", c.apiKey)
	}
	return q.Encode()
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{Code: resp.StatusCode, URL: u}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toCurrencyRates(raw map[string]float64) map[model.Currency]float64 {
	rates := make(map[model.Currency]float64, len(raw))
	for code, rate := range raw {
		rates[model.Normalize(code)] = rate
	}
	return rates
}
