// Package config loads and validates application configuration.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"

	"pricewatch/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Ebay      EbayConfig      `mapstructure:"ebay"`
	Watchlist WatchlistConfig `mapstructure:"watchlist"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	History   HistoryConfig   `mapstructure:"history"`
	Stats     StatsConfig     `mapstructure:"stats"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// EbayConfig holds marketplace client configuration
type EbayConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// WatchlistConfig holds the watched items and run behavior
type WatchlistConfig struct {
	WebhookURL    string               `mapstructure:"webhook_url"`
	MaxConcurrent int                  `mapstructure:"max_concurrent"`
	Items         []models.WatchedItem `mapstructure:"items"`
}

// AlertsConfig holds notification delivery configuration
type AlertsConfig struct {
	LogPath        string         `mapstructure:"log_path"`
	WebhookTimeout time.Duration  `mapstructure:"webhook_timeout"`
	Telegram       TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig holds the optional Telegram alert channel
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// HistoryConfig holds price history persistence configuration
type HistoryConfig struct {
	CSVPath string `mapstructure:"csv_path"`
}

// StatsConfig holds the outlier rejection policy
type StatsConfig struct {
	OutlierThreshold float64 `mapstructure:"outlier_threshold"`
	MinSamples       int     `mapstructure:"min_samples"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Dir    string `mapstructure:"dir"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("PRICEWATCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("ebay.base_url", "https://www.ebay.com")
	v.SetDefault("ebay.timeout", "10s")
	v.SetDefault("ebay.max_retries", 3)
	v.SetDefault("ebay.retry_delay_base", "1s")

	v.SetDefault("watchlist.max_concurrent", 3)

	v.SetDefault("alerts.log_path", "alerts.log")
	v.SetDefault("alerts.webhook_timeout", "10s")
	v.SetDefault("alerts.telegram.enabled", false)

	v.SetDefault("history.csv_path", "prices.csv")

	v.SetDefault("stats.outlier_threshold", 2.0)
	v.SetDefault("stats.min_samples", 4)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.dir", "")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Ebay.BaseURL == "" {
		return fmt.Errorf("ebay.base_url is required")
	}
	if c.Ebay.Timeout <= 0 {
		return fmt.Errorf("ebay.timeout must be positive")
	}
	if c.Ebay.MaxRetries < 1 {
		return fmt.Errorf("ebay.max_retries must be at least 1")
	}

	if c.Watchlist.MaxConcurrent < 1 {
		return fmt.Errorf("watchlist.max_concurrent must be at least 1")
	}
	if c.Watchlist.WebhookURL != "" {
		if _, err := url.ParseRequestURI(c.Watchlist.WebhookURL); err != nil {
			return fmt.Errorf("watchlist.webhook_url is not a valid URL: %w", err)
		}
	}
	for i := range c.Watchlist.Items {
		if err := c.Watchlist.Items[i].Validate(); err != nil {
			return fmt.Errorf("watchlist.items[%d]: %w", i, err)
		}
	}

	if c.Alerts.LogPath == "" {
		return fmt.Errorf("alerts.log_path is required")
	}
	if c.Alerts.WebhookTimeout <= 0 {
		return fmt.Errorf("alerts.webhook_timeout must be positive")
	}
	if c.Alerts.Telegram.Enabled {
		if c.Alerts.Telegram.BotToken == "" {
			return fmt.Errorf("alerts.telegram.bot_token is required when telegram is enabled")
		}
		if c.Alerts.Telegram.ChatID == "" {
			return fmt.Errorf("alerts.telegram.chat_id is required when telegram is enabled")
		}
	}

	if c.History.CSVPath == "" {
		return fmt.Errorf("history.csv_path is required")
	}

	if c.Stats.OutlierThreshold <= 0 {
		return fmt.Errorf("stats.outlier_threshold must be positive")
	}
	if c.Stats.MinSamples < 1 {
		return fmt.Errorf("stats.min_samples must be at least 1")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
