package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"YTCAPT_CACHE_DB",
		"YTCAPT_CACHE_TTL",
		"YTCAPT_SWEEP_CRON",
		"YTCAPT_YTDLP_PATH",
		"YTCAPT_FETCH_TIMEOUT",
		"YTCAPT_DEFAULT_LANG",
		"YTCAPT_HTTP_ADDR",
		"YTCAPT_PRODUCTION",
	} {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Cache.DBPath)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "0 3 * * *", cfg.Cache.SweepCron)
	assert.Equal(t, "yt-dlp", cfg.Fetch.YTDLPPath)
	assert.Equal(t, 60*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "ko", cfg.Fetch.DefaultLanguage)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.Production)
}

func TestNewFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("YTCAPT_CACHE_DB", "/var/lib/ytcapt/cache.db")
	t.Setenv("YTCAPT_CACHE_TTL", "24h")
	t.Setenv("YTCAPT_DEFAULT_LANG", "en")
	t.Setenv("YTCAPT_HTTP_ADDR", ":9090")
	t.Setenv("YTCAPT_PRODUCTION", "true")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/ytcapt/cache.db", cfg.Cache.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "en", cfg.Fetch.DefaultLanguage)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.True(t, cfg.Production)
}

func TestNewFromEnv_InvalidDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("YTCAPT_CACHE_TTL", "not-a-duration")

	cfg, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.TTL)
}

func TestNewFromEnv_InvalidCron(t *testing.T) {
	clearEnv(t)
	t.Setenv("YTCAPT_SWEEP_CRON", "every day at three")

	_, err := NewFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YTCAPT_SWEEP_CRON")
}

func TestNewFromEnv_InvalidLanguage(t *testing.T) {
	clearEnv(t)
	t.Setenv("YTCAPT_DEFAULT_LANG", "zz!!")

	_, err := NewFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YTCAPT_DEFAULT_LANG")
}

func TestNewFromEnv_Options(t *testing.T) {
	clearEnv(t)

	cfg, err := NewFromEnv(func(c *Config) {
		c.Fetch.DefaultLanguage = "en"
	})
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Fetch.DefaultLanguage)
}
