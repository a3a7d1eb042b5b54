package ports

import (
	"context"
	"time"

	"fxgateway/internal/domain/model"
)

// UpstreamClient is the provider-facing contract. Implementations issue the
// actual network calls and return raw, unfiltered quote tables.
type UpstreamClient interface {
	FetchLatest(ctx context.Context, base model.Currency) (*model.ExchangeSnapshot, error)
	// FetchHistorical returns the full date-keyed series for the range,
	// keyed by day ("2006-01-02").
	FetchHistorical(ctx context.Context, start, end time.Time, base model.Currency) (map[string]map[model.Currency]float64, error)
}
