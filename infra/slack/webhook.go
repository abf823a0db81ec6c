package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/curbsignal/curbsignal/core/logger"
	"github.com/curbsignal/curbsignal/core/notify"
	"github.com/curbsignal/curbsignal/internal/retry"
)

// Config holds the webhook settings.
type Config struct {
	WebhookURL  string       `json:"webhook_url"`
	TimeoutSecs int          `json:"timeout_seconds"`
	Retry       retry.Config `json:"retry"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("slack webhook_url is required")
	}
	return nil
}

// Webhook delivers messages to a Slack incoming webhook.
type Webhook struct {
	cfg  Config
	http *http.Client
	log  logger.Logger
}

// NewWebhook creates the notifier.
func NewWebhook(cfg Config, log logger.Logger) *Webhook {
	cfg.SetDefaults()
	return &Webhook{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
		log:  log,
	}
}

// Send posts the message payload, retrying transient failures. Slack
// acknowledges a webhook post with the literal body "ok"; anything else is
// an error.
func (w *Webhook) Send(ctx context.Context, msg notify.Message) error {
	body, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msg.Kind, err)
	}

	err = retry.Do(ctx, w.cfg.Retry, w.log, "slack send", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		res, err := w.http.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = res.Body.Close() }()
		text, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		if res.StatusCode != http.StatusOK {
			return fmt.Errorf("slack webhook: %s - %s", res.Status, string(text))
		}
		if string(text) != "ok" {
			return fmt.Errorf("slack webhook: unexpected response %q", string(text))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("send %s: %w", msg.Kind, err)
	}
	w.log.Infof("sent %s notification", msg.Kind)
	return nil
}
