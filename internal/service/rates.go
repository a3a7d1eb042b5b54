package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"fxgateway/internal/domain/model"
	"fxgateway/internal/domain/ports"
	"fxgateway/internal/resilience"
	"fxgateway/pkg/dates"
)

var (
	ErrInvalidCurrency    = errors.New("invalid currency")
	ErrRestrictedCurrency = errors.New("restricted currency")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrInvalidPagination  = errors.New("invalid pagination")
	ErrRateNotFound       = errors.New("rate not found for pair")
	ErrUpstreamFailure    = errors.New("upstream failure")
)

const (
	DefaultLatestTTL     = 30 * time.Minute
	DefaultHistoricalTTL = 24 * time.Hour
)

// Executor runs one outbound call under the retry and circuit-breaker policy.
type Executor interface {
	Execute(ctx context.Context, op resilience.Operation) (any, error)
}

// RateService validates requests, computes conversions and paginates
// historical series. All upstream reads go through the single-flight cache
// and the resilience executor.
type RateService struct {
	upstream ports.UpstreamClient
	cache    ports.Cache
	executor Executor
	log      zerolog.Logger

	latestTTL     time.Duration
	historicalTTL time.Duration
}

var _ ports.RateService = (*RateService)(nil)

func NewRateService(upstream ports.UpstreamClient, cache ports.Cache, executor Executor, log zerolog.Logger) *RateService {
	return &RateService{
		upstream:      upstream,
		cache:         cache,
		executor:      executor,
		log:           log.With().Str("component", "service").Logger(),
		latestTTL:     DefaultLatestTTL,
		historicalTTL: DefaultHistoricalTTL,
	}
}

// WithTTLs overrides the cache lifetimes, mainly for configuration wiring.
func (s *RateService) WithTTLs(latest, historical time.Duration) *RateService {
	if latest > 0 {
		s.latestTTL = latest
	}
	if historical > 0 {
		s.historicalTTL = historical
	}
	return s
}

func (s *RateService) GetLatestRates(ctx context.Context, base model.Currency) (*model.ExchangeSnapshot, error) {
	if err := validateCurrency(base); err != nil {
		return nil, err
	}

	key := "latest:" + base.String()
	v, err := s.cache.GetOrCreate(ctx, key, func(ctx context.Context) (any, error) {
		res, err := s.executor.Execute(ctx, func(ctx context.Context) (any, error) {
			return s.upstream.FetchLatest(ctx, base)
		})
		if err != nil {
			return nil, err
		}
		snapshot := res.(*model.ExchangeSnapshot)
		return filterSnapshot(snapshot), nil
	}, s.latestTTL)
	if err != nil {
		return nil, s.upstreamError(err, "fetch latest rates", base)
	}

	return v.(*model.ExchangeSnapshot), nil
}

func (s *RateService) ConvertCurrency(ctx context.Context, from, to model.Currency, amount float64) (*model.ConversionResult, error) {
	if err := validateCurrency(from); err != nil {
		return nil, err
	}
	if err := validateCurrency(to); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %v", ErrInvalidAmount, amount)
	}

	snapshot, err := s.GetLatestRates(ctx, from)
	if err != nil {
		return nil, err
	}

	rate := 1.0
	if to != from {
		var ok bool
		rate, ok = snapshot.Rates[to]
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrRateNotFound, from, to)
		}
	}

	return &model.ConversionResult{
		From:            from,
		To:              to,
		Amount:          amount,
		ConvertedAmount: amount * rate,
		Rate:            rate,
		Date:            snapshot.Date,
	}, nil
}

func (s *RateService) GetHistoricalRates(ctx context.Context, start, end time.Time, base model.Currency, page, pageSize int) (*model.HistoricalPage, error) {
	if err := validateCurrency(base); err != nil {
		return nil, err
	}
	// The range is day-granular: intraday components must not affect
	// validation or the cache key.
	start, end = dates.Truncate(start), dates.Truncate(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date is after end date", ErrInvalidDateRange)
	}
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("%w: page and page size must be at least 1", ErrInvalidPagination)
	}

	key := fmt.Sprintf("hist:%s:%s:%s", base, dates.Format(start), dates.Format(end))
	v, err := s.cache.GetOrCreate(ctx, key, func(ctx context.Context) (any, error) {
		res, err := s.executor.Execute(ctx, func(ctx context.Context) (any, error) {
			return s.upstream.FetchHistorical(ctx, start, end, base)
		})
		if err != nil {
			return nil, err
		}
		series := res.(map[string]map[model.Currency]float64)
		return buildSeries(base, series), nil
	}, s.historicalTTL)
	if err != nil {
		return nil, s.upstreamError(err, "fetch historical rates", base)
	}

	series := v.([]model.ExchangeSnapshot)
	pageRates, pagination := paginate(series, page, pageSize)

	return &model.HistoricalPage{
		Base:       base,
		StartDate:  start,
		EndDate:    end,
		Rates:      pageRates,
		Pagination: pagination,
	}, nil
}

func (s *RateService) upstreamError(err error, op string, base model.Currency) error {
	s.log.Error().Err(err).Str("base", base.String()).Msg("failed to " + op)
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
}

func validateCurrency(c model.Currency) error {
	if !c.IsSupported() {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, c)
	}
	if c.IsRestricted() {
		return fmt.Errorf("%w: %s", ErrRestrictedCurrency, c)
	}
	return nil
}

// filterSnapshot drops restricted quote currencies; they never appear in
// results even when present upstream.
func filterSnapshot(snapshot *model.ExchangeSnapshot) *model.ExchangeSnapshot {
	return &model.ExchangeSnapshot{
		Base:  snapshot.Base,
		Date:  snapshot.Date,
		Rates: filterRates(snapshot.Rates),
	}
}

func filterRates(rates map[model.Currency]float64) map[model.Currency]float64 {
	filtered := make(map[model.Currency]float64, len(rates))
	for code, rate := range rates {
		if code.IsRestricted() {
			continue
		}
		filtered[code] = rate
	}
	return filtered
}

// buildSeries orders the raw date-keyed series ascending and filters each
// day's quotes. Days with unparseable dates are dropped.
func buildSeries(base model.Currency, raw map[string]map[model.Currency]float64) []model.ExchangeSnapshot {
	series := make([]model.ExchangeSnapshot, 0, len(raw))
	for day, rates := range raw {
		date, err := dates.Parse(day)
		if err != nil {
			continue
		}
		series = append(series, model.ExchangeSnapshot{
			Base:  base,
			Date:  date,
			Rates: filterRates(rates),
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

func paginate(series []model.ExchangeSnapshot, page, pageSize int) ([]model.ExchangeSnapshot, model.Pagination) {
	totalCount := len(series)
	totalPages := totalCount / pageSize
	if totalCount%pageSize != 0 {
		totalPages++
	}

	pagination := model.Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}

	// Past the last page there is nothing to slice. Returning here also keeps
	// the offset arithmetic below within [0, totalCount], so arbitrarily large
	// page and pageSize values cannot overflow into a negative slice bound.
	if page > totalPages {
		return nil, pagination
	}

	low := (page - 1) * pageSize
	high := low + pageSize
	if high > totalCount {
		high = totalCount
	}
	return series[low:high], pagination
}
