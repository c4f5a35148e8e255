package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pricewatch/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndValidate(t *testing.T) {
	content := `
ebay:
  base_url: "https://www.ebay.com"
  timeout: 10s
  max_retries: 3

watchlist:
  webhook_url: "https://example.com/webhook"
  max_concurrent: 3
  items:
    - name: "Nintendo Switch"
      target_price: 300.00
    - name: "PS5"
      target_price: 400.00
      check_sold: true

alerts:
  log_path: "alerts.log"
  webhook_timeout: 10s

history:
  csv_path: "prices.csv"

stats:
  outlier_threshold: 2.0
  min_samples: 4

logging:
  level: "info"
  format: "json"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Ebay.Timeout != 10*time.Second {
		t.Errorf("Unexpected timeout: %v", cfg.Ebay.Timeout)
	}
	if cfg.Watchlist.WebhookURL != "https://example.com/webhook" {
		t.Errorf("Unexpected webhook URL: %s", cfg.Watchlist.WebhookURL)
	}
	if len(cfg.Watchlist.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(cfg.Watchlist.Items))
	}
	if cfg.Watchlist.Items[0].Name != "Nintendo Switch" || cfg.Watchlist.Items[0].TargetPrice != 300 {
		t.Errorf("Unexpected first item: %+v", cfg.Watchlist.Items[0])
	}
	if cfg.Watchlist.Items[0].CheckSold {
		t.Error("check_sold should default to false")
	}
	if !cfg.Watchlist.Items[1].CheckSold {
		t.Error("second item should have check_sold true")
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "watchlist:\n  items: []\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Ebay.BaseURL != "https://www.ebay.com" {
		t.Errorf("Unexpected base URL default: %s", cfg.Ebay.BaseURL)
	}
	if cfg.Watchlist.MaxConcurrent != 3 {
		t.Errorf("Unexpected max_concurrent default: %d", cfg.Watchlist.MaxConcurrent)
	}
	if cfg.Alerts.WebhookTimeout != 10*time.Second {
		t.Errorf("Unexpected webhook timeout default: %v", cfg.Alerts.WebhookTimeout)
	}
	if cfg.Stats.OutlierThreshold != 2.0 || cfg.Stats.MinSamples != 4 {
		t.Errorf("Unexpected stats defaults: %+v", cfg.Stats)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults should validate: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "invalid: yaml: content: [")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func validConfig() *Config {
	return &Config{
		Ebay: EbayConfig{
			BaseURL:        "https://www.ebay.com",
			Timeout:        10 * time.Second,
			MaxRetries:     3,
			RetryDelayBase: time.Second,
		},
		Watchlist: WatchlistConfig{
			MaxConcurrent: 3,
			Items: []models.WatchedItem{
				{Name: "Nintendo Switch", TargetPrice: 300},
			},
		},
		Alerts: AlertsConfig{
			LogPath:        "alerts.log",
			WebhookTimeout: 10 * time.Second,
		},
		History: HistoryConfig{CSVPath: "prices.csv"},
		Stats:   StatsConfig{OutlierThreshold: 2.0, MinSamples: 4},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.Ebay.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.Ebay.Timeout = 0 }},
		{"zero max concurrent", func(c *Config) { c.Watchlist.MaxConcurrent = 0 }},
		{"bad webhook url", func(c *Config) { c.Watchlist.WebhookURL = "not a url" }},
		{"item without name", func(c *Config) { c.Watchlist.Items[0].Name = "" }},
		{"item with zero target", func(c *Config) { c.Watchlist.Items[0].TargetPrice = 0 }},
		{"missing alert log path", func(c *Config) { c.Alerts.LogPath = "" }},
		{"telegram enabled without token", func(c *Config) {
			c.Alerts.Telegram = TelegramConfig{Enabled: true, ChatID: "42"}
		}},
		{"telegram enabled without chat id", func(c *Config) {
			c.Alerts.Telegram = TelegramConfig{Enabled: true, BotToken: "token"}
		}},
		{"missing csv path", func(c *Config) { c.History.CSVPath = "" }},
		{"zero outlier threshold", func(c *Config) { c.Stats.OutlierThreshold = 0 }},
		{"zero min samples", func(c *Config) { c.Stats.MinSamples = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}

	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config should pass: %v", err)
	}
}
