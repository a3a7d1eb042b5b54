package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server     ServerConfig
	Upstream   UpstreamConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Resilience ResilienceConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"120s"`
}

type UpstreamConfig struct {
	Provider string        `env:"UPSTREAM_PROVIDER" env-default:"frankfurter"`
	BaseURL  string        `env:"UPSTREAM_BASE_URL"`
	APIKey   string        `env:"UPSTREAM_API_KEY"`
	Timeout  time.Duration `env:"UPSTREAM_TIMEOUT" env-default:"10s"`
}

type CacheConfig struct {
	LatestTTL     time.Duration `env:"CACHE_LATEST_TTL" env-default:"30m"`
	HistoricalTTL time.Duration `env:"CACHE_HISTORICAL_TTL" env-default:"24h"`
}

type RateLimitConfig struct {
	Limit  int           `env:"RATE_LIMIT_REQUESTS" env-default:"100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"60s"`
}

type ResilienceConfig struct {
	MaxRetries        int           `env:"RETRY_MAX_ATTEMPTS" env-default:"3"`
	BackoffUnit       time.Duration `env:"RETRY_BACKOFF_UNIT" env-default:"1s"`
	FailureRatio      float64       `env:"BREAKER_FAILURE_RATIO" env-default:"0.5"`
	SamplingWindow    time.Duration `env:"BREAKER_SAMPLING_WINDOW" env-default:"1m"`
	MinimumThroughput uint32        `env:"BREAKER_MINIMUM_THROUGHPUT" env-default:"10"`
	BreakDuration     time.Duration `env:"BREAKER_BREAK_DURATION" env-default:"30s"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Pretty bool   `env:"LOG_PRETTY" env-default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}
