// Package scraper checks the DOT status page for an emergency suspension in
// effect today. It is a best-effort signal: the suspension oracle treats any
// failure here as "no signal".
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/curbsignal/curbsignal/core/civiltime"
	"github.com/curbsignal/curbsignal/core/logger"
	"github.com/curbsignal/curbsignal/core/model"
	"github.com/curbsignal/curbsignal/internal/retry"
)

// DefaultStatusURL is the NYC DOT alternate-side parking status page.
const DefaultStatusURL = "https://www.nyc.gov/html/dot/html/motorist/alternate-side-parking.shtml"

// defaultSuspensionPhrases indicate an active suspension when found in the
// page body. Matching is case-insensitive.
var defaultSuspensionPhrases = []string{
	"asp is suspended",
	"alternate side parking is suspended",
	"parking rules are suspended",
	"asp suspended today",
	"not in effect today",
	"suspended due to",
}

// defaultReasonKeywords are scanned in order; the first one present in the
// page becomes the suspension reason.
var defaultReasonKeywords = []string{"snow", "weather", "emergency", "holiday"}

// Config holds the status page settings. The phrase lists track the DOT
// page wording and can be overridden without a rebuild when it changes.
type Config struct {
	URL               string       `json:"url"`
	TimeoutSecs       int          `json:"timeout_seconds"`
	SuspensionPhrases []string     `json:"suspension_phrases"`
	ReasonKeywords    []string     `json:"reason_keywords"`
	Retry             retry.Config `json:"retry"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = DefaultStatusURL
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = 10
	}
	if len(c.SuspensionPhrases) == 0 {
		c.SuspensionPhrases = defaultSuspensionPhrases
	}
	if len(c.ReasonKeywords) == 0 {
		c.ReasonKeywords = defaultReasonKeywords
	}
}

// Scraper implements the live status provider against the DOT page.
type Scraper struct {
	cfg  Config
	zone *civiltime.Zone
	http *http.Client
	log  logger.Logger
}

// New creates a Scraper.
func New(cfg Config, zone *civiltime.Zone, log logger.Logger) *Scraper {
	cfg.SetDefaults()
	return &Scraper{
		cfg:  cfg,
		zone: zone,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
		log:  log,
	}
}

// Check fetches the status page and reports whether a suspension is in
// effect today.
func (s *Scraper) Check(ctx context.Context) (model.LiveStatus, error) {
	var html string
	err := retry.Do(ctx, s.cfg.Retry, s.log, "status page fetch", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
		if err != nil {
			return err
		}
		res, err := s.http.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = res.Body.Close() }()
		if res.StatusCode != http.StatusOK {
			return fmt.Errorf("status page: %s", res.Status)
		}
		b, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		html = string(b)
		return nil
	})
	if err != nil {
		return model.LiveStatus{}, err
	}
	return s.ParseStatus(html)
}

// ParseStatus scans the page body for suspension phrases and extracts a
// reason when one is present.
func (s *Scraper) ParseStatus(html string) (model.LiveStatus, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return model.LiveStatus{}, fmt.Errorf("parse status page: %w", err)
	}
	body := strings.ToLower(doc.Find("body").Text())
	checkedAt := s.zone.Now()

	for _, phrase := range s.cfg.SuspensionPhrases {
		if strings.Contains(body, phrase) {
			return model.LiveStatus{
				SuspendedToday: true,
				Reason:         s.extractReason(body),
				CheckedAt:      checkedAt,
			}, nil
		}
	}
	return model.LiveStatus{CheckedAt: checkedAt}, nil
}

func (s *Scraper) extractReason(body string) string {
	for _, kw := range s.cfg.ReasonKeywords {
		if strings.Contains(body, kw) {
			return kw
		}
	}
	return "emergency"
}
