package ports

import (
	"context"
	"time"

	"fxgateway/internal/domain/model"
)

type RateService interface {
	GetLatestRates(ctx context.Context, base model.Currency) (*model.ExchangeSnapshot, error)
	ConvertCurrency(ctx context.Context, from, to model.Currency, amount float64) (*model.ConversionResult, error)
	GetHistoricalRates(ctx context.Context, start, end time.Time, base model.Currency, page, pageSize int) (*model.HistoricalPage, error)
}
