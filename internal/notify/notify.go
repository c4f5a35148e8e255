// Package notify implements alert delivery channels: an append-only alert
// log, an outbound webhook, and an optional Telegram bot.
package notify

import (
	"context"

	"pricewatch/internal/models"
)

// Notifier delivers an alert for a below-target check result. Delivery is
// best effort: implementations report failure through the error and never
// panic or retry across runs.
type Notifier interface {
	Notify(ctx context.Context, result models.CheckResult) error
}

// LinkBuilder reconstructs the marketplace search link for a watched item so
// that alert messages stay actionable.
type LinkBuilder interface {
	SearchURL(name string, soldOnly bool) string
}

// Multi dispatches to every channel. Channel failures are independent: all
// channels are attempted and the first error is reported.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, result models.CheckResult) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, result); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
