package config

import (
	"testing"
	"time"
)

func env(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromEnv(env(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "https://api.stackexchange.com/2.3" {
		t.Fatalf("unexpected base url %q", cfg.APIBaseURL)
	}
	if cfg.Site != "stackoverflow" {
		t.Fatalf("unexpected site %q", cfg.Site)
	}
	if cfg.RateLimitCalls != 30 || cfg.RateLimitWindow != time.Minute {
		t.Fatalf("unexpected rate limits: %d/%s", cfg.RateLimitCalls, cfg.RateLimitWindow)
	}
	if cfg.RetryBackoff != 2*time.Second || cfg.MaxRetries != 3 {
		t.Fatalf("unexpected retry policy: %s/%d", cfg.RetryBackoff, cfg.MaxRetries)
	}
	if cfg.Credentials().CanWrite() {
		t.Fatal("no credentials must mean read-only")
	}
}

func TestLoadMissingCredentialsIsValid(t *testing.T) {
	cfg, err := LoadFromEnv(env(map[string]string{
		"STACKOVERFLOW_API_KEY": "k",
	}))
	if err != nil {
		t.Fatalf("key without token must be valid: %v", err)
	}
	if cfg.Credentials().CanWrite() {
		t.Fatal("key alone must not enable writes")
	}
}

func TestLoadTokenWithoutKeyFails(t *testing.T) {
	_, err := LoadFromEnv(env(map[string]string{
		"STACKOVERFLOW_ACCESS_TOKEN": "tok",
	}))
	if err == nil {
		t.Fatal("expected error for token without key")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFromEnv(env(map[string]string{
		"STACKOVERFLOW_API_BASE":     "https://example.com/api",
		"STACKOVERFLOW_SITE":         "serverfault",
		"STACKOVERFLOW_API_KEY":      "k",
		"STACKOVERFLOW_ACCESS_TOKEN": "tok",
		"RATE_LIMIT_MAX_CALLS":       "10",
		"RATE_LIMIT_WINDOW_SECONDS":  "30",
		"RETRY_BACKOFF_SECONDS":      "1",
		"MAX_RETRIES":                "5",
		"REQUEST_TIMEOUT_SECONDS":    "5",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Site != "serverfault" || cfg.APIBaseURL != "https://example.com/api" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RateLimitCalls != 10 || cfg.RateLimitWindow != 30*time.Second {
		t.Fatalf("rate overrides not applied: %+v", cfg)
	}
	if cfg.MaxRetries != 5 || cfg.RetryBackoff != time.Second || cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("retry overrides not applied: %+v", cfg)
	}
	if !cfg.Credentials().CanWrite() {
		t.Fatal("key plus token must enable writes")
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	cfg, err := LoadFromEnv(env(map[string]string{
		"RATE_LIMIT_MAX_CALLS": "many",
		"MAX_RETRIES":          "-1",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RateLimitCalls != 30 || cfg.MaxRetries != 3 {
		t.Fatalf("expected defaults for malformed values, got %+v", cfg)
	}
}
