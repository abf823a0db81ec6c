// Package calendar fetches and parses the yearly suspension calendar
// published as an ICS file.
package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/curbsignal/curbsignal/core/logger"
	"github.com/curbsignal/curbsignal/internal/retry"
)

// DefaultURLTemplate points at the NYC DOT alternate-side calendar. The
// {year} placeholder is substituted at fetch time.
const DefaultURLTemplate = "https://www.nyc.gov/html/dot/downloads/misc/{year}-alternate-side.ics"

// Config holds the calendar endpoint settings.
type Config struct {
	URLTemplate string       `json:"url_template"`
	TimeoutSecs int          `json:"timeout_seconds"`
	Retry       retry.Config `json:"retry"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.URLTemplate == "" {
		c.URLTemplate = DefaultURLTemplate
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if !strings.Contains(c.URLTemplate, "{year}") {
		return fmt.Errorf("calendar url_template must contain {year}")
	}
	return nil
}

// Client downloads the ICS calendar over HTTP with bounded retries.
type Client struct {
	cfg  Config
	http *http.Client
	log  logger.Logger
}

// NewClient creates a calendar Client.
func NewClient(cfg Config, log logger.Logger) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
		log:  log,
	}
}

// Fetch downloads the raw ICS text for the given year.
func (c *Client) Fetch(ctx context.Context, year int) (string, error) {
	url := strings.ReplaceAll(c.cfg.URLTemplate, "{year}", fmt.Sprint(year))

	var body string
	err := retry.Do(ctx, c.cfg.Retry, c.log, "calendar fetch", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = res.Body.Close() }()
		if res.StatusCode != http.StatusOK {
			return fmt.Errorf("fetch ics: %s", res.Status)
		}
		b, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		body = string(b)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("calendar %d: %w", year, err)
	}
	c.log.Debugf("fetched calendar for %d (%d bytes)", year, len(body))
	return body, nil
}
