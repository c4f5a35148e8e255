package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pricewatch/internal/config"
	"pricewatch/internal/ebay"
	"pricewatch/internal/history"
	"pricewatch/internal/logging"
	"pricewatch/internal/models"
	"pricewatch/internal/notify"
	"pricewatch/internal/stats"
	"pricewatch/internal/watcher"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	watchMode  = flag.Bool("watch", false, "Check every watchlist item and send alerts")
	itemName   = flag.String("item", "", "Item name for a one-shot price check")
	soldOnly   = flag.Bool("sold", false, "Use completed/sold listings in one-shot mode")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	client := ebay.NewClient(cfg.Ebay.BaseURL, cfg.Ebay.Timeout, ebay.ClientConfig{
		MaxRetries:     cfg.Ebay.MaxRetries,
		RetryDelayBase: cfg.Ebay.RetryDelayBase,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	switch {
	case *watchMode:
		if err := runWatchMode(ctx, cfg, client, logger); err != nil {
			logger.Fatal("Watch mode failed", zap.Error(err))
		}
	case *itemName != "":
		if err := runOneShot(ctx, cfg, client, *itemName, *soldOnly, logger); err != nil {
			logger.Fatal("Price check failed", zap.Error(err))
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runWatchMode(ctx context.Context, cfg *config.Config, client *ebay.Client, logger *zap.Logger) error {
	items := cfg.Watchlist.Items
	if len(items) == 0 {
		logger.Warn("No items in watchlist")
		return nil
	}

	notifiers := notify.Multi{
		notify.NewAlertLog(cfg.Alerts.LogPath, client, logger),
	}
	if cfg.Watchlist.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.Watchlist.WebhookURL, cfg.Alerts.WebhookTimeout, client))
	}
	if cfg.Alerts.Telegram.Enabled {
		tg, err := notify.NewTelegram(cfg.Alerts.Telegram.BotToken, cfg.Alerts.Telegram.ChatID, client)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram channel: %w", err)
		}
		notifiers = append(notifiers, tg)
	}

	checker := watcher.NewChecker(client, watcher.Config{
		OutlierThreshold: cfg.Stats.OutlierThreshold,
		MinSamples:       cfg.Stats.MinSamples,
	}, logger)
	scheduler := watcher.NewScheduler(checker, notifiers, cfg.Watchlist.MaxConcurrent, logger)

	logger.Info("Checking watchlist",
		zap.Int("items", len(items)),
		zap.Int("max_concurrent", cfg.Watchlist.MaxConcurrent))

	start := time.Now()
	results := scheduler.Run(ctx, items)
	summary := watcher.Summarize(results)

	logger.Info("Watchlist run complete",
		zap.Int("checked", summary.Checked),
		zap.Int("alerts", summary.Alerts),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func runOneShot(ctx context.Context, cfg *config.Config, client *ebay.Client, name string, sold bool, logger *zap.Logger) error {
	observations, err := client.FetchPrices(ctx, name, sold)
	if err != nil {
		return fmt.Errorf("failed to fetch prices: %w", err)
	}

	filtered := stats.RemoveOutliers(observations, cfg.Stats.OutlierThreshold, cfg.Stats.MinSamples)
	average, err := stats.Average(filtered)
	if err != nil {
		return fmt.Errorf("no usable prices found for %q", name)
	}

	fmt.Printf("Average price for %s: $%.2f (%d listings, %d after outlier removal)\n",
		name, average, len(observations), len(filtered))

	record := history.Record{Date: time.Now(), Item: name}
	if sold {
		record.AvgSold = models.SomePrice(average)
	} else {
		record.AvgListed = models.SomePrice(average)
	}
	if err := history.NewWriter(cfg.History.CSVPath).Append(record); err != nil {
		return fmt.Errorf("failed to save price history: %w", err)
	}

	logger.Info("Price saved to history",
		zap.String("item", name),
		zap.Float64("average", average),
		zap.String("path", cfg.History.CSVPath))
	return nil
}
