package notify

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pricewatch/internal/models"
)

// AlertLog appends one human-readable record per alert to an append-only
// file. The file is never read back by the application.
type AlertLog struct {
	path   string
	links  LinkBuilder
	logger *zap.Logger
	now    func() time.Time
}

// NewAlertLog creates an alert log appending to path.
func NewAlertLog(path string, links LinkBuilder, logger *zap.Logger) *AlertLog {
	return &AlertLog{path: path, links: links, logger: logger, now: time.Now}
}

// Notify appends a single-line alert record. An I/O failure is reported to
// the caller and does not affect other channels.
func (a *AlertLog) Notify(_ context.Context, result models.CheckResult) error {
	link := a.links.SearchURL(result.Item.Name, result.Item.CheckSold)
	line := formatLogLine(uuid.New().String(), a.now(), result, link)

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open alert log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append alert: %w", err)
	}

	a.logger.Info("Alert recorded",
		zap.String("item", result.Item.Name),
		zap.Float64("price", result.CurrentPrice.Value),
		zap.Float64("target", result.Item.TargetPrice))
	return nil
}

// formatLogLine renders the single-line alert record. Prices are rounded to
// currency precision at this output boundary only.
func formatLogLine(id string, now time.Time, result models.CheckResult, link string) string {
	return fmt.Sprintf("[%s] PRICE ALERT %s: %s average price is $%.2f ($%.2f below target of $%.2f) Link: %s",
		now.Format("2006-01-02 15:04:05"),
		id,
		result.Item.Name,
		result.CurrentPrice.Value,
		math.Abs(result.PriceDifference),
		result.Item.TargetPrice,
		link,
	)
}
