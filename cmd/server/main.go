package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpRouter "fxgateway/internal/adapter/http"
	"fxgateway/internal/adapter/upstream"
	"fxgateway/internal/cache"
	"fxgateway/internal/config"
	"fxgateway/internal/metrics"
	"fxgateway/internal/ratelimit"
	"fxgateway/internal/resilience"
	"fxgateway/internal/service"
	"fxgateway/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	log.Info().Msg("starting exchange rate gateway")

	provider, err := upstream.ParseProvider(cfg.Upstream.Provider)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid upstream provider")
	}

	appMetrics := metrics.NewMetrics()

	rateCache := cache.NewSingleFlight(log, appMetrics.CacheHitsTotal, appMetrics.CacheMissesTotal)
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimit.Limit, cfg.RateLimit.Window, log)

	upstreamClient := upstream.NewClient(provider, cfg.Upstream.BaseURL, cfg.Upstream.APIKey, cfg.Upstream.Timeout, log)

	executorCfg := resilience.Config{
		MaxRetries:        cfg.Resilience.MaxRetries,
		BackoffUnit:       cfg.Resilience.BackoffUnit,
		FailureRatio:      cfg.Resilience.FailureRatio,
		SamplingWindow:    cfg.Resilience.SamplingWindow,
		MinimumThroughput: cfg.Resilience.MinimumThroughput,
		BreakDuration:     cfg.Resilience.BreakDuration,
		OnAttempt:         appMetrics.UpstreamAttemptsTotal.Inc,
		OnFailure:         appMetrics.UpstreamFailuresTotal.Inc,
		OnStateChange: func(from, to string) {
			appMetrics.CircuitState.Set(circuitStateValue(to))
		},
	}
	executor := resilience.NewExecutor(provider.String(), executorCfg, log)

	rateService := service.NewRateService(upstreamClient, rateCache, executor, log).
		WithTTLs(cfg.Cache.LatestTTL, cfg.Cache.HistoricalTTL)

	handler := httpRouter.NewHandler(rateService, log, appMetrics)
	router := httpRouter.NewRouter(handler, limiter, log, appMetrics)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("provider", provider.String()).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exited")
}

func circuitStateValue(state string) float64 {
	switch state {
	case "open":
		return 2
	case "half-open":
		return 1
	default:
		return 0
	}
}
