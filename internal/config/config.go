package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL           string `yaml:"base_url"`
		APIKey            string `yaml:"api_key"`
		RequestsPerMinute *int   `yaml:"requests_per_minute"` // 0 disables the limit; unset means 10
		TimeoutSeconds    int    `yaml:"timeout_seconds"`
		Mock              bool   `yaml:"mock"`
	} `yaml:"data_source"`
	Schedule struct {
		PriceRefreshCron string `yaml:"price_refresh_cron"`
	} `yaml:"schedule"`
	Submit struct {
		CooldownMillis *int `yaml:"cooldown_ms"` // 0 disables the cooldown; unset means 700
	} `yaml:"submit"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Timezone string `yaml:"timezone"`
	Proxy    string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("MOCK_PRICES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DataSource.Mock = b
		}
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
	if v := os.Getenv("TZ_NAME"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("CRON_PRICE_REFRESH"); v != "" {
		cfg.Schedule.PriceRefreshCron = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.DataSource.RequestsPerMinute == nil {
		cfg.DataSource.RequestsPerMinute = intPtr(10)
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.Schedule.PriceRefreshCron == "" {
		cfg.Schedule.PriceRefreshCron = "0 */10 * * * *"
	}
	if cfg.Submit.CooldownMillis == nil {
		cfg.Submit.CooldownMillis = intPtr(700)
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.RateLimit() < 0 {
		return fmt.Errorf("data_source.requests_per_minute must not be negative")
	}
	if c.DataSource.TimeoutSeconds <= 0 {
		return fmt.Errorf("data_source.timeout_seconds must be positive")
	}
	if c.Submit.CooldownMillis != nil && *c.Submit.CooldownMillis < 0 {
		return fmt.Errorf("submit.cooldown_ms must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(c.Schedule.PriceRefreshCron); err != nil {
		return fmt.Errorf("schedule.price_refresh_cron: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether the bot is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Location returns the zone user input is interpreted in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// RateLimit is the upstream requests-per-minute budget; 0 means unlimited.
func (c *Config) RateLimit() int {
	if c.DataSource.RequestsPerMinute == nil {
		return 0
	}
	return *c.DataSource.RequestsPerMinute
}

// Cooldown is the submit lock held after each request settles.
func (c *Config) Cooldown() time.Duration {
	if c.Submit.CooldownMillis == nil {
		return 0
	}
	return time.Duration(*c.Submit.CooldownMillis) * time.Millisecond
}

func intPtr(v int) *int { return &v }

// Timeout is the upstream HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}
