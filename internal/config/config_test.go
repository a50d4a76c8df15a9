package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if len(cfg.GlobalSourceURLs) != 3 {
		t.Errorf("GlobalSourceURLs = %v, want 3 defaults", cfg.GlobalSourceURLs)
	}
	if len(cfg.RegionalSourceURLs) != 1 {
		t.Errorf("RegionalSourceURLs = %v, want 1 default", cfg.RegionalSourceURLs)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"RequestTimeout", cfg.RequestTimeout, 10 * time.Second},
		{"RetryMaxAttempts", cfg.RetryMaxAttempts, 1},
		{"RetryDelay", cfg.RetryDelay, time.Second},
		{"RetryBackoff", cfg.RetryBackoff, false},
		{"RetryMaxDelay", cfg.RetryMaxDelay, 10 * time.Second},
		{"RateLimitPerSecond", cfg.RateLimitPerSecond, 0.0},
		{"RateLimitBurst", cfg.RateLimitBurst, 1},
		{"CacheTTL", cfg.CacheTTL, time.Hour},
		{"RefreshCron", cfg.RefreshCron, ""},
		{"HTTPAddr", cfg.HTTPAddr, ":8501"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "text"},
		{"ShutdownTimeout", cfg.ShutdownTimeout, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("GLOBAL_SOURCE_URLS", "http://a.test/x.csv, http://b.test/y.csv")
	t.Setenv("REGIONAL_SOURCE_URLS", "http://c.test/z.csv")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("RETRY_MAX_ATTEMPTS", "3")
	t.Setenv("RETRY_BACKOFF", "true")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("REFRESH_CRON", "*/30 * * * *")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if len(cfg.GlobalSourceURLs) != 2 || cfg.GlobalSourceURLs[1] != "http://b.test/y.csv" {
		t.Errorf("GlobalSourceURLs = %v, want two trimmed URLs", cfg.GlobalSourceURLs)
	}
	if len(cfg.RegionalSourceURLs) != 1 || cfg.RegionalSourceURLs[0] != "http://c.test/z.csv" {
		t.Errorf("RegionalSourceURLs = %v", cfg.RegionalSourceURLs)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if cfg.RateLimitPerSecond != 2.5 {
		t.Errorf("RateLimitPerSecond = %v, want 2.5", cfg.RateLimitPerSecond)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v, want 15m", cfg.CacheTTL)
	}
	if cfg.RefreshCron != "*/30 * * * *" {
		t.Errorf("RefreshCron = %q", cfg.RefreshCron)
	}
	if cfg.HTTPAddr != ":9000" || cfg.LogFormat != "json" {
		t.Errorf("HTTPAddr/LogFormat = %q/%q", cfg.HTTPAddr, cfg.LogFormat)
	}

	policy := cfg.RetryPolicy()
	if policy.MaxAttempts != 3 || !policy.Backoff {
		t.Errorf("RetryPolicy() = %+v, want 3 attempts with backoff", policy)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "zero attempts",
			env:     map[string]string{"RETRY_MAX_ATTEMPTS": "0"},
			wantErr: "RETRY_MAX_ATTEMPTS",
		},
		{
			name:    "bad log format",
			env:     map[string]string{"LOG_FORMAT": "xml"},
			wantErr: "LOG_FORMAT",
		},
		{
			name:    "bad cron",
			env:     map[string]string{"REFRESH_CRON": "every hour"},
			wantErr: "REFRESH_CRON",
		},
		{
			name:    "zero burst",
			env:     map[string]string{"RATE_LIMIT_BURST": "0"},
			wantErr: "RATE_LIMIT_BURST",
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"REQUEST_TIMEOUT": "-1s"},
			wantErr: "REQUEST_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to mention %s", err.Error(), tt.wantErr)
			}
		})
	}
}
