// Package ebay fetches price observations from eBay search result pages.
package ebay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) pricewatch/1.0"

// ClientConfig tunes HTTP behavior for the search page client.
type ClientConfig struct {
	MaxRetries     int
	RetryDelayBase time.Duration
}

// Client fetches search result pages and extracts listing prices.
type Client struct {
	baseURL    string
	httpClient *http.Client
	config     ClientConfig
	logger     *zap.Logger
}

// NewClient creates a search page client against baseURL.
func NewClient(baseURL string, timeout time.Duration, cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelayBase <= 0 {
		cfg.RetryDelayBase = time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
		logger:     logger,
	}
}

// SearchURL builds the search results URL for an item name. soldOnly narrows
// the query to completed/sold listings.
func (c *Client) SearchURL(name string, soldOnly bool) string {
	q := url.Values{}
	q.Set("_nkw", name)
	if soldOnly {
		q.Set("LH_Sold", "1")
		q.Set("LH_Complete", "1")
	}
	return c.baseURL + "/sch/i.html?" + q.Encode()
}

// FetchPrices returns the raw price observations found on the first search
// results page for name. A page without usable listings yields an empty
// slice and no error.
func (c *Client) FetchPrices(ctx context.Context, name string, soldOnly bool) ([]float64, error) {
	resp, err := c.doRequest(ctx, c.SearchURL(name, soldOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search results: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}
	return c.extractPrices(doc), nil
}

// extractPrices walks the search result listings and collects valid prices.
func (c *Client) extractPrices(doc *goquery.Document) []float64 {
	var prices []float64
	doc.Find("ul.srp-results li.s-item span.s-item__price").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		// "$10.00 to $20.00" ranges carry no single observation.
		if strings.Contains(text, " to ") {
			return
		}
		price, err := ParsePrice(text)
		if err != nil {
			c.logger.Debug("Skipping unparseable listing price", zap.String("text", text))
			return
		}
		prices = append(prices, price)
	})
	return prices
}

// ParsePrice converts a listing price string like "$1,234.56" to a number.
func ParsePrice(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "$")
	trimmed = strings.ReplaceAll(trimmed, ",", "")
	price, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price format %q: %w", text, err)
	}
	if price < 0 {
		return 0, fmt.Errorf("negative price %q", text)
	}
	return price, nil
}

// doRequest performs a GET with linear-backoff retry on transport errors and
// server-side failures.
func (c *Client) doRequest(ctx context.Context, urlStr string) (*http.Response, error) {
	var lastErr error

	for i := 0; i < c.config.MaxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/html")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(c.config.RetryDelayBase * time.Duration(i+1))
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			time.Sleep(c.config.RetryDelayBase * time.Duration(i+1))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}

		return resp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
