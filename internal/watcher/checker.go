// Package watcher implements per-item price checks and the bounded-fan-out
// watchlist scheduler.
package watcher

import (
	"context"

	"go.uber.org/zap"

	"pricewatch/internal/models"
	"pricewatch/internal/stats"
)

// PriceSource yields raw price observations for an item name. Failures are
// reported through the error and degrade to "no price" at the checker
// boundary; they never abort a run.
type PriceSource interface {
	FetchPrices(ctx context.Context, name string, soldOnly bool) ([]float64, error)
}

// Config holds the statistical policy applied to fetched observations.
type Config struct {
	OutlierThreshold float64
	MinSamples       int
}

// DefaultConfig returns the stock outlier rejection policy.
func DefaultConfig() Config {
	return Config{
		OutlierThreshold: stats.DefaultThreshold,
		MinSamples:       stats.DefaultMinSamples,
	}
}

// Checker derives a representative price for one watched item and decides
// whether it is at or below target.
type Checker struct {
	source PriceSource
	config Config
	logger *zap.Logger
}

// NewChecker creates a checker reading observations from source.
func NewChecker(source PriceSource, config Config, logger *zap.Logger) *Checker {
	if config.OutlierThreshold <= 0 {
		config.OutlierThreshold = stats.DefaultThreshold
	}
	if config.MinSamples <= 0 {
		config.MinSamples = stats.DefaultMinSamples
	}
	return &Checker{source: source, config: config, logger: logger}
}

// Check fetches, filters and averages observations for item. It never fails:
// a source error or an empty page degrades to a result without a price,
// which is distinct from "price found but above target".
func (c *Checker) Check(ctx context.Context, item models.WatchedItem) models.CheckResult {
	observations, err := c.source.FetchPrices(ctx, item.Name, item.CheckSold)
	if err != nil {
		c.logger.Warn("Price fetch failed",
			zap.String("item", item.Name),
			zap.Error(err))
		return noPriceResult(item)
	}
	if len(observations) == 0 {
		c.logger.Warn("No price observations found", zap.String("item", item.Name))
		return noPriceResult(item)
	}

	filtered := stats.RemoveOutliers(observations, c.config.OutlierThreshold, c.config.MinSamples)
	average, err := stats.Average(filtered)
	if err != nil {
		// Unreachable while the filter passes short inputs through, but a
		// policy change must not turn this into a panic.
		c.logger.Warn("No observations left after filtering", zap.String("item", item.Name))
		return noPriceResult(item)
	}

	c.logger.Debug("Derived average price",
		zap.String("item", item.Name),
		zap.Float64("average", average),
		zap.Int("observations", len(observations)),
		zap.Int("after_filter", len(filtered)))

	return models.CheckResult{
		Item:            item,
		CurrentPrice:    models.SomePrice(average),
		BelowTarget:     average <= item.TargetPrice,
		PriceDifference: average - item.TargetPrice,
	}
}

func noPriceResult(item models.WatchedItem) models.CheckResult {
	return models.CheckResult{Item: item, CurrentPrice: models.NoPrice()}
}
