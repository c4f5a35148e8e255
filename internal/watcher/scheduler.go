package watcher

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"pricewatch/internal/models"
	"pricewatch/internal/notify"
)

// DefaultMaxConcurrent bounds simultaneous marketplace requests to avoid
// rate-limit and ban risk.
const DefaultMaxConcurrent = 3

// Scheduler fans a watchlist out over a bounded number of concurrent checks
// and dispatches notifications for results at or below target.
type Scheduler struct {
	checker       *Checker
	notifier      notify.Notifier
	maxConcurrent int
	logger        *zap.Logger
}

// NewScheduler creates a scheduler admitting at most maxConcurrent checks at
// a time.
func NewScheduler(checker *Checker, notifier notify.Notifier, maxConcurrent int, logger *zap.Logger) *Scheduler {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Scheduler{
		checker:       checker,
		notifier:      notifier,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// Run checks every item, at most maxConcurrent at a time, and returns one
// result per item in input order regardless of completion order. Items with
// duplicate names are each checked independently. After every check has
// completed, below-target results are dispatched to the notifier
// synchronously, in input order; a dispatch failure is logged and does not
// affect other items.
func (s *Scheduler) Run(ctx context.Context, items []models.WatchedItem) []models.CheckResult {
	results := make([]models.CheckResult, len(items))
	gate := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item models.WatchedItem) {
			defer wg.Done()
			gate <- struct{}{}
			defer func() { <-gate }()

			s.logger.Info("Checking price", zap.String("item", item.Name))
			results[i] = s.checker.Check(ctx, item)
		}(i, item)
	}
	wg.Wait()

	for _, result := range results {
		if !result.BelowTarget {
			continue
		}
		if err := s.notifier.Notify(ctx, result); err != nil {
			s.logger.Error("Notification dispatch failed",
				zap.String("item", result.Item.Name),
				zap.Error(err))
		}
	}

	return results
}

// Summarize reduces a run's results to operator-facing counts: items checked,
// alerts triggered, and checks that produced no price.
func Summarize(results []models.CheckResult) models.RunSummary {
	summary := models.RunSummary{Checked: len(results)}
	for _, r := range results {
		if r.BelowTarget {
			summary.Alerts++
		}
		if !r.CurrentPrice.Valid {
			summary.Failed++
		}
	}
	return summary
}
