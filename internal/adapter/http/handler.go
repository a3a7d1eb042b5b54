package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"fxgateway/internal/domain/model"
	"fxgateway/internal/domain/ports"
	"fxgateway/internal/metrics"
	"fxgateway/internal/resilience"
	"fxgateway/internal/service"
	"fxgateway/pkg/dates"
)

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Handler struct {
	service ports.RateService
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewHandler(svc ports.RateService, log zerolog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		service: svc,
		log:     log.With().Str("component", "http").Logger(),
		metrics: m,
	}
}

func (h *Handler) GetLatestRatesHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.RateRequestsTotal.Inc()

	base := r.URL.Query().Get("base")
	if base == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameter: base")
		return
	}

	snapshot, err := h.service.GetLatestRates(r.Context(), model.Normalize(base))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, snapshot)
}

func (h *Handler) ConvertCurrencyHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.ConversionRequestsTotal.Inc()

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	amountStr := r.URL.Query().Get("amount")

	if from == "" || to == "" || amountStr == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: from, to and amount")
		return
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid amount parameter")
		return
	}

	result, err := h.service.ConvertCurrency(r.Context(), model.Normalize(from), model.Normalize(to), amount)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, result)
}

func (h *Handler) GetHistoricalRatesHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.HistoricalRequestsTotal.Inc()

	base := r.URL.Query().Get("base")
	startStr := r.URL.Query().Get("start_date")
	endStr := r.URL.Query().Get("end_date")

	if base == "" || startStr == "" || endStr == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: base, start_date and end_date")
		return
	}

	start, err := dates.Parse(startStr)
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid start_date format, use YYYY-MM-DD")
		return
	}

	end, err := dates.Parse(endStr)
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid end_date format, use YYYY-MM-DD")
		return
	}

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil {
			h.sendErrorResponse(w, http.StatusBadRequest, "invalid page parameter")
			return
		}
	}

	pageSize := 10
	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		pageSize, err = strconv.Atoi(sizeStr)
		if err != nil {
			h.sendErrorResponse(w, http.StatusBadRequest, "invalid page_size parameter")
			return
		}
	}

	result, err := h.service.GetHistoricalRates(r.Context(), start, end, model.Normalize(base), page, pageSize)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, result)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "time": time.Now().UTC()})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCurrency),
		errors.Is(err, service.ErrRestrictedCurrency),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidPagination):
		h.sendErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRateNotFound):
		h.sendErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, resilience.ErrCircuitOpen):
		h.sendErrorResponse(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrUpstreamFailure):
		h.sendErrorResponse(w, http.StatusBadGateway, err.Error())
	default:
		h.log.Error().Err(err).Msg("unexpected service error")
		h.sendErrorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) sendSuccessResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(Response{Success: true, Data: data}); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) sendErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Success: false, Error: message}); err != nil {
		h.log.Error().Err(err).Msg("failed to encode error response")
	}
}
