package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"sealevel/internal/fetcher"
)

// Default candidate sources, in priority order.
var (
	DefaultGlobalSourceURLs = []string{
		"https://datahub.io/core/sea-level-rise/r/sea-level.csv",
		"https://www.climate.gov/sites/default/files/Global_mean_sea_level_1880-2013.csv",
		"https://sealevel.nasa.gov/system/resources/files/2576_SeaLevel_GMSL_1880-2023.csv",
	}
	DefaultRegionalSourceURLs = []string{
		"https://data.go.kr/download/15017303/fileData.do",
	}
)

// Config holds all configuration for the sea level dashboard.
type Config struct {
	// Candidate sources per dataset
	GlobalSourceURLs   []string `mapstructure:"global_source_urls"`
	RegionalSourceURLs []string `mapstructure:"regional_source_urls"`

	// Per-request behaviour
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	RetryMaxAttempts   int           `mapstructure:"retry_max_attempts"`
	RetryDelay         time.Duration `mapstructure:"retry_delay"`
	RetryBackoff       bool          `mapstructure:"retry_backoff"`
	RetryMaxDelay      time.Duration `mapstructure:"retry_max_delay"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`

	// Snapshot cache and refresh
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	RefreshCron string        `mapstructure:"refresh_cron"`

	// Server and logging
	HTTPAddr        string        `mapstructure:"http_addr"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RetryPolicy returns the per-source retry policy described by the config.
func (c *Config) RetryPolicy() fetcher.RetryPolicy {
	return fetcher.RetryPolicy{
		MaxAttempts: c.RetryMaxAttempts,
		Delay:       c.RetryDelay,
		Backoff:     c.RetryBackoff,
		MaxDelay:    c.RetryMaxDelay,
	}
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Recognised environment variables:
//   - GLOBAL_SOURCE_URLS, REGIONAL_SOURCE_URLS (comma separated)
//   - REQUEST_TIMEOUT, RETRY_MAX_ATTEMPTS, RETRY_DELAY, RETRY_BACKOFF, RETRY_MAX_DELAY
//   - RATE_LIMIT_PER_SECOND, RATE_LIMIT_BURST
//   - CACHE_TTL, REFRESH_CRON
//   - HTTP_ADDR, LOG_LEVEL, LOG_FORMAT, SHUTDOWN_TIMEOUT
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("global_source_urls", DefaultGlobalSourceURLs)
	v.SetDefault("regional_source_urls", DefaultRegionalSourceURLs)
	v.SetDefault("request_timeout", fetcher.DefaultTimeout)
	v.SetDefault("retry_max_attempts", 1)
	v.SetDefault("retry_delay", time.Second)
	v.SetDefault("retry_backoff", false)
	v.SetDefault("retry_max_delay", 10*time.Second)
	v.SetDefault("rate_limit_per_second", 0.0)
	v.SetDefault("rate_limit_burst", 1)
	v.SetDefault("cache_ttl", time.Hour)
	v.SetDefault("refresh_cron", "")
	v.SetDefault("http_addr", ":8501")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("shutdown_timeout", 10*time.Second)

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.sealevel")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.GlobalSourceURLs = cleanList(config.GlobalSourceURLs)
	config.RegionalSourceURLs = cleanList(config.RegionalSourceURLs)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var invalid []string
	if c.RequestTimeout <= 0 {
		invalid = append(invalid, "REQUEST_TIMEOUT must be positive")
	}
	if c.RetryMaxAttempts < 1 {
		invalid = append(invalid, "RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if c.RetryDelay < 0 || c.RetryMaxDelay < 0 {
		invalid = append(invalid, "RETRY_DELAY and RETRY_MAX_DELAY must not be negative")
	}
	if c.RateLimitPerSecond < 0 {
		invalid = append(invalid, "RATE_LIMIT_PER_SECOND must not be negative")
	}
	if c.RateLimitBurst < 1 {
		invalid = append(invalid, "RATE_LIMIT_BURST must be at least 1")
	}
	if c.ShutdownTimeout <= 0 {
		invalid = append(invalid, "SHUTDOWN_TIMEOUT must be positive")
	}
	if c.HTTPAddr == "" {
		invalid = append(invalid, "HTTP_ADDR must be set")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		invalid = append(invalid, fmt.Sprintf("LOG_FORMAT %q must be json or text", c.LogFormat))
	}
	if c.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
			invalid = append(invalid, fmt.Sprintf("REFRESH_CRON %q: %v", c.RefreshCron, err))
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, "; "))
	}
	return nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
