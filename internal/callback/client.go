package callback

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/internal/logging/types"
	"wordlewatch/pkg/models"
)

// Client delivers completed scrape results to a configured webhook URL.
// It implements review.Sink, so delivery failures are logged by the
// pipeline rather than failing the scrape.
type Client struct {
	http       *resty.Client
	url        string
	maxRetries int
	logger     types.Logger
}

// Payload is the body posted to the webhook.
type Payload struct {
	Event  string               `json:"event"`
	SentAt int64                `json:"sentAt"` // epoch milliseconds
	Result *models.ScrapeResult `json:"result"`
}

// NewClient creates a webhook callback client
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.Callback.URL == "" {
		return nil, fmt.Errorf("callback URL is required")
	}

	timeout := cfg.Callback.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxRetries := cfg.Callback.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	http := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:       http,
		url:        cfg.Callback.URL,
		maxRetries: maxRetries,
		logger:     logging.GetGlobalLogger(),
	}, nil
}

// Name identifies the client in sink logs.
func (c *Client) Name() string {
	return "webhook"
}

// Write posts the result to the webhook with bounded retries. Backoff
// scales with the attempt number.
func (c *Client) Write(ctx context.Context, result *models.ScrapeResult) error {
	payload := Payload{
		Event:  "review.scraped",
		SentAt: time.Now().UnixMilli(),
		Result: result,
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(payload).
			Post(c.url)

		if err == nil && resp.IsSuccess() {
			c.logger.Info("Callback delivered", map[string]interface{}{
				"url":     c.url,
				"attempt": attempt,
			})
			return nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("webhook returned status %d", resp.StatusCode())
		}

		c.logger.Warn("Callback attempt failed", map[string]interface{}{
			"url":     c.url,
			"attempt": attempt,
			"error":   lastErr.Error(),
		})

		if attempt < c.maxRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	return fmt.Errorf("callback failed after %d attempts: %w", c.maxRetries, lastErr)
}
