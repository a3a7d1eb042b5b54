package model

import "time"

// ExchangeSnapshot is one day's quote table for a base currency, as produced by
// the upstream provider and filtered of restricted currencies by the service.
type ExchangeSnapshot struct {
	Base  Currency             `json:"base"`
	Date  time.Time            `json:"date"`
	Rates map[Currency]float64 `json:"rates"`
}

type ConversionResult struct {
	From            Currency  `json:"from"`
	To              Currency  `json:"to"`
	Amount          float64   `json:"amount"`
	ConvertedAmount float64   `json:"converted_amount"`
	Rate            float64   `json:"rate"`
	Date            time.Time `json:"date"`
}

type Pagination struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalCount  int  `json:"total_count"`
	TotalPages  int  `json:"total_pages"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// HistoricalPage is one page of a date-ascending series of snapshots.
type HistoricalPage struct {
	Base       Currency           `json:"base"`
	StartDate  time.Time          `json:"start_date"`
	EndDate    time.Time          `json:"end_date"`
	Rates      []ExchangeSnapshot `json:"rates"`
	Pagination Pagination         `json:"pagination"`
}
