package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"UNUSUAL_WHALES_API_KEY", "UNUSUAL_WHALES_URL", "DRY_RUN", "SCAN_INTERVAL",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HTTPS_PROXY", "SQLITE_PATH",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.DataSource.BaseURL)
	assert.Equal(t, "chains", cfg.DataSource.ListKey)
	assert.Equal(t, 60*time.Second, cfg.Scan.Interval)
	assert.Equal(t, 10*time.Second, cfg.Scan.FetchTimeout)
	assert.Equal(t, 30, cfg.Rules.MinDaysToExpiry)
	assert.Equal(t, 5.0, cfg.Rules.MinAveragePrice)
	assert.Equal(t, 100000.0, cfg.Rules.MinPremium)
	assert.Equal(t, 1.5, cfg.Rules.MinVolumeRatio)
	assert.True(t, cfg.Execution.DryRun, "dry-run is the default mode")
	assert.Empty(t, cfg.Database.SQLitePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
data_source:
  api_key: from-file
scan:
  interval: 2m
  fetch_timeout: 3s
rules:
  min_premium: 250000
execution:
  dry_run: false
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))
	t.Setenv("UNUSUAL_WHALES_API_KEY", "from-env")
	t.Setenv("SCAN_INTERVAL", "90s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.DataSource.APIKey)
	assert.Equal(t, 90*time.Second, cfg.Scan.Interval)
	assert.Equal(t, 3*time.Second, cfg.Scan.FetchTimeout)
	assert.Equal(t, 250000.0, cfg.Rules.MinPremium)
	assert.Equal(t, 1.5, cfg.Rules.MinVolumeRatio)
	assert.False(t, cfg.Execution.DryRun)
}

func TestLoad_DryRunEnv(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"false", false},
		{"FALSE", false},
		{"true", true},
		{"not-a-bool", true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DRY_RUN", tt.env)
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Execution.DryRun)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero interval", func(c *Config) { c.Scan.Interval = 0 }},
		{"negative timeout", func(c *Config) { c.Scan.FetchTimeout = -time.Second }},
		{"negative rule", func(c *Config) { c.Rules.MinPremium = -1 }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "x" }},
		{"no base url", func(c *Config) { c.DataSource.BaseURL = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestRedacted(t *testing.T) {
	var c Config
	c.DataSource.APIKey = "secret"
	c.Telegram.BotToken = "token"

	r := c.Redacted()
	assert.Equal(t, "****", r.DataSource.APIKey)
	assert.Equal(t, "****", r.Telegram.BotToken)
	assert.Equal(t, "secret", c.DataSource.APIKey, "receiver untouched")
}
