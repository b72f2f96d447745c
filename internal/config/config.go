// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"stack_scout/pkg/stackexchange"
)

// Config holds runtime configuration.
type Config struct {
	APIBaseURL string
	Site       string

	// APIKey raises read rate limits; AccessToken enables writes.
	// Both absent is a valid read-only configuration.
	APIKey      string
	AccessToken string

	LogLevel  string
	LogFormat string

	RequestTimeout time.Duration

	// Local rate limiting and retry policy for the API client.
	RateLimitCalls  int
	RateLimitWindow time.Duration
	RetryBackoff    time.Duration
	MaxRetries      int
}

const (
	defaultAPIBaseURL = "https://api.stackexchange.com/2.3"
	defaultSite       = "stackoverflow"
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"

	defaultRequestTimeoutSec = 30
	defaultRateLimitCalls    = 30
	defaultRateWindowSec     = 60
	defaultRetryBackoffSec   = 2
	defaultMaxRetries        = 3
)

// Load loads configuration from environment variables.
func Load() (Config, error) {
	return LoadFromEnv(os.Getenv)
}

// LoadFromEnv loads configuration from a getenv-like function.
func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		APIBaseURL:      getOrDefault(getenv, "STACKOVERFLOW_API_BASE", defaultAPIBaseURL),
		Site:            getOrDefault(getenv, "STACKOVERFLOW_SITE", defaultSite),
		APIKey:          getenv("STACKOVERFLOW_API_KEY"),
		AccessToken:     getenv("STACKOVERFLOW_ACCESS_TOKEN"),
		LogLevel:        getOrDefault(getenv, "LOG_LEVEL", defaultLogLevel),
		LogFormat:       getOrDefault(getenv, "LOG_FORMAT", defaultLogFormat),
		RequestTimeout:  getSeconds(getenv, "REQUEST_TIMEOUT_SECONDS", defaultRequestTimeoutSec),
		RateLimitCalls:  getIntOrDefault(getenv, "RATE_LIMIT_MAX_CALLS", defaultRateLimitCalls),
		RateLimitWindow: getSeconds(getenv, "RATE_LIMIT_WINDOW_SECONDS", defaultRateWindowSec),
		RetryBackoff:    getSeconds(getenv, "RETRY_BACKOFF_SECONDS", defaultRetryBackoffSec),
		MaxRetries:      getIntOrDefault(getenv, "MAX_RETRIES", defaultMaxRetries),
	}

	// The API rejects access_token writes without an application key,
	// so surface the misconfiguration at startup instead of on the
	// first write.
	if cfg.AccessToken != "" && cfg.APIKey == "" {
		return Config{}, errors.New("STACKOVERFLOW_API_KEY is required when STACKOVERFLOW_ACCESS_TOKEN is set")
	}
	return cfg, nil
}

// Credentials returns the API credentials.
func (c Config) Credentials() stackexchange.Credentials {
	return stackexchange.Credentials{Key: c.APIKey, AccessToken: c.AccessToken}
}

func getOrDefault(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func getIntOrDefault(getenv func(string) string, key string, def int) int {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getSeconds(getenv func(string) string, key string, def int) time.Duration {
	return time.Duration(getIntOrDefault(getenv, key, def)) * time.Second
}
