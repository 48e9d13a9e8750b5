package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultBaseURL = "https://api.unusualwhales.com/api/historic_chains"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL     string        `yaml:"base_url"`
		APIKey      string        `yaml:"api_key"`
		ListKey     string        `yaml:"list_key"`
		MinFetchGap time.Duration `yaml:"min_fetch_gap"`
	} `yaml:"data_source"`
	Scan struct {
		Interval     time.Duration `yaml:"interval"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"scan"`
	Rules struct {
		MinDaysToExpiry int     `yaml:"min_days_to_expiry"`
		MinAveragePrice float64 `yaml:"min_average_price"`
		MinPremium      float64 `yaml:"min_premium"`
		MinVolumeRatio  float64 `yaml:"min_volume_ratio"`
	} `yaml:"rules"`
	Execution struct {
		DryRun bool  `yaml:"dry_run"`
		Seed   int64 `yaml:"seed"`
	} `yaml:"execution"`
	Telegram struct {
		BotToken   string `yaml:"bot_token"`
		ChatID     string `yaml:"chat_id"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Execution.DryRun = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("UNUSUAL_WHALES_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("UNUSUAL_WHALES_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v, ok := envBool("DRY_RUN"); ok {
		cfg.Execution.DryRun = v
	}
	if v, ok := envDuration("SCAN_INTERVAL"); ok {
		cfg.Scan.Interval = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = DefaultBaseURL
	}
	if cfg.DataSource.ListKey == "" {
		cfg.DataSource.ListKey = "chains"
	}
	if cfg.DataSource.MinFetchGap == 0 {
		cfg.DataSource.MinFetchGap = 5 * time.Second
	}
	if cfg.Scan.Interval == 0 {
		cfg.Scan.Interval = 60 * time.Second
	}
	if cfg.Scan.FetchTimeout == 0 {
		cfg.Scan.FetchTimeout = 10 * time.Second
	}
	if cfg.Rules.MinDaysToExpiry == 0 {
		cfg.Rules.MinDaysToExpiry = 30
	}
	if cfg.Rules.MinAveragePrice == 0 {
		cfg.Rules.MinAveragePrice = 5
	}
	if cfg.Rules.MinPremium == 0 {
		cfg.Rules.MinPremium = 100_000
	}
	if cfg.Rules.MinVolumeRatio == 0 {
		cfg.Rules.MinVolumeRatio = 1.5
	}
	if cfg.Telegram.MaxRetries == 0 {
		cfg.Telegram.MaxRetries = 2
	}
	if cfg.Schedule.DigestCron == "" {
		cfg.Schedule.DigestCron = "0 0 16 * * 1-5"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate checks that the configuration is usable. A missing API key is
// allowed: the scanner then runs on the fallback dataset.
func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.Scan.Interval <= 0 {
		return fmt.Errorf("scan.interval must be positive")
	}
	if c.Scan.FetchTimeout <= 0 {
		return fmt.Errorf("scan.fetch_timeout must be positive")
	}
	if c.Rules.MinDaysToExpiry < 0 || c.Rules.MinAveragePrice < 0 ||
		c.Rules.MinPremium < 0 || c.Rules.MinVolumeRatio < 0 {
		return fmt.Errorf("rules thresholds must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}

// Redacted returns a copy with secrets masked, for printing.
func (c Config) Redacted() Config {
	c.DataSource.APIKey = mask(c.DataSource.APIKey)
	c.Telegram.BotToken = mask(c.Telegram.BotToken)
	return c
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}
