package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"pricewatch/internal/models"
)

// DefaultWebhookTimeout bounds a single delivery attempt.
const DefaultWebhookTimeout = 10 * time.Second

// Webhook posts alert messages to a configured endpoint (Discord, Slack or
// anything accepting a JSON body with a single text field).
type Webhook struct {
	url    string
	links  LinkBuilder
	client *http.Client
}

// NewWebhook creates a webhook channel posting to url.
func NewWebhook(url string, timeout time.Duration, links LinkBuilder) *Webhook {
	if timeout <= 0 {
		timeout = DefaultWebhookTimeout
	}
	return &Webhook{
		url:    url,
		links:  links,
		client: &http.Client{Timeout: timeout},
	}
}

type webhookPayload struct {
	Content string `json:"content"`
}

// Notify sends a single POST per alert. No retries and no idempotency
// guarantee across runs: an item still below target on the next run is
// re-sent.
func (w *Webhook) Notify(ctx context.Context, result models.CheckResult) error {
	link := w.links.SearchURL(result.Item.Name, result.Item.CheckSold)
	message := fmt.Sprintf(
		"🔔 **Price Alert!**\n**%s** average price is now **$%.2f**\nThat's $%.2f below your target of $%.2f!\n[View on eBay](%s)",
		result.Item.Name,
		result.CurrentPrice.Value,
		math.Abs(result.PriceDifference),
		result.Item.TargetPrice,
		link,
	)

	body, err := json.Marshal(webhookPayload{Content: message})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
