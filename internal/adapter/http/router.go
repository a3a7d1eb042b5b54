package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"fxgateway/internal/metrics"
	"fxgateway/internal/ratelimit"
)

type Router struct {
	handler *Handler
	limiter *ratelimit.SlidingWindow
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewRouter(handler *Handler, limiter *ratelimit.SlidingWindow, log zerolog.Logger, m *metrics.Metrics) *Router {
	return &Router{
		handler: handler,
		limiter: limiter,
		log:     log,
		metrics: m,
	}
}

func (rt *Router) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", rt.handler.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequestID)
		r.Use(RequestLogger(rt.log, rt.metrics))
		r.Use(AdmissionLimit(rt.limiter, rt.metrics, rt.log))

		r.Get("/rates/latest", rt.handler.GetLatestRatesHandler)
		r.Get("/rates/convert", rt.handler.ConvertCurrencyHandler)
		r.Get("/rates/historical", rt.handler.GetHistoricalRatesHandler)
	})

	return r
}
