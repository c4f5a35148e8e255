package notify

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pricewatch/internal/models"
)

// Telegram delivers alerts through the Telegram Bot API with linear-backoff
// retry, mirroring the webhook message content.
type Telegram struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	links          LinkBuilder
	maxRetries     int
	retryDelayBase time.Duration
}

// NewTelegram creates a Telegram channel sending to chatID.
func NewTelegram(botToken, chatID string, links LinkBuilder) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	return &Telegram{
		bot:            bot,
		chatID:         chatIDInt,
		links:          links,
		maxRetries:     3,
		retryDelayBase: time.Second,
	}, nil
}

// Notify sends the alert as a MarkdownV2 message.
func (t *Telegram) Notify(_ context.Context, result models.CheckResult) error {
	return t.sendMarkdownV2(t.formatMessage(result))
}

// sendMarkdownV2 sends a MarkdownV2 message with linear-backoff retry.
func (t *Telegram) sendMarkdownV2(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < t.maxRetries; i++ {
		if _, err := t.bot.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(t.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", t.maxRetries, lastErr)
}

func (t *Telegram) formatMessage(result models.CheckResult) string {
	link := t.links.SearchURL(result.Item.Name, result.Item.CheckSold)
	return fmt.Sprintf("🔔 *Price Alert*\n*%s* average price is now *$%s*\n$%s below target of $%s\n[View listings](%s)",
		escapeMarkdownV2(result.Item.Name),
		escapeMarkdownV2(fmt.Sprintf("%.2f", result.CurrentPrice.Value)),
		escapeMarkdownV2(fmt.Sprintf("%.2f", math.Abs(result.PriceDifference))),
		escapeMarkdownV2(fmt.Sprintf("%.2f", result.Item.TargetPrice)),
		link,
	)
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
