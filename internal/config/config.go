package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
)

// Config holds all application configuration.
// Supports environment variables with sensible defaults.
//
// Environment Variables:
// Cache Configuration:
// - YTCAPT_CACHE_DB: SQLite cache database path (default: <tmp>/ytcapt/cache.db)
// - YTCAPT_CACHE_TTL: cache entry lifetime (default: 168h)
// - YTCAPT_SWEEP_CRON: expired-entry sweep schedule in service mode (default: 0 3 * * *)
//
// Fetch Configuration:
// - YTCAPT_YTDLP_PATH: yt-dlp binary (default: yt-dlp)
// - YTCAPT_FETCH_TIMEOUT: per-request fetch timeout (default: 60s)
// - YTCAPT_DEFAULT_LANG: caption language when none is given (default: ko)
//
// Service Configuration:
// - YTCAPT_HTTP_ADDR: service listen address (default: :8080)
// - YTCAPT_PRODUCTION: production-mode toggle (default: false)
type Config struct {
	Cache      CacheConfig `json:"cache"`
	Fetch      FetchConfig `json:"fetch"`
	HTTP       HTTPConfig  `json:"http"`
	Production bool        `json:"production"`
}

// CacheConfig holds the configuration for the TTL cache store.
type CacheConfig struct {
	DBPath    string        `json:"db_path"`
	TTL       time.Duration `json:"ttl"`
	SweepCron string        `json:"sweep_cron"`
}

// FetchConfig holds the configuration for the caption source boundary.
type FetchConfig struct {
	YTDLPPath       string        `json:"ytdlp_path"`
	Timeout         time.Duration `json:"timeout"`
	DefaultLanguage string        `json:"default_language"`
}

// HTTPConfig holds the service surface configuration.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Cache: CacheConfig{
			DBPath:    getEnvString("YTCAPT_CACHE_DB", filepath.Join(os.TempDir(), "ytcapt", "cache.db")),
			TTL:       getEnvDuration("YTCAPT_CACHE_TTL", 7*24*time.Hour),
			SweepCron: getEnvString("YTCAPT_SWEEP_CRON", "0 3 * * *"),
		},
		Fetch: FetchConfig{
			YTDLPPath:       getEnvString("YTCAPT_YTDLP_PATH", "yt-dlp"),
			Timeout:         getEnvDuration("YTCAPT_FETCH_TIMEOUT", 60*time.Second),
			DefaultLanguage: getEnvString("YTCAPT_DEFAULT_LANG", "ko"),
		},
		HTTP: HTTPConfig{
			Addr: getEnvString("YTCAPT_HTTP_ADDR", ":8080"),
		},
		Production: getEnvBool("YTCAPT_PRODUCTION", false),
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all configuration is properly set
func (c *Config) validate() error {
	if c.Cache.DBPath == "" {
		return fmt.Errorf("YTCAPT_CACHE_DB must not be empty")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("YTCAPT_CACHE_TTL must be positive")
	}
	if _, err := cron.ParseStandard(c.Cache.SweepCron); err != nil {
		return fmt.Errorf("invalid YTCAPT_SWEEP_CRON: %w", err)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("YTCAPT_FETCH_TIMEOUT must be positive")
	}
	if _, err := language.Parse(c.Fetch.DefaultLanguage); err != nil {
		return fmt.Errorf("invalid YTCAPT_DEFAULT_LANG: %w", err)
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment variables with default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean value from environment variables with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
