// Package suspension answers whether parking enforcement is suspended on a
// given civil date. It combines a cached holiday calendar with a live status
// check that applies to today only.
package suspension

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/curbsignal/curbsignal/core/civiltime"
	"github.com/curbsignal/curbsignal/core/logger"
	"github.com/curbsignal/curbsignal/core/model"
)

// Suspension reasons surfaced to callers and notifications.
const (
	ReasonHoliday   = "holiday"
	ReasonEmergency = "emergency"
)

// cacheKey is the Store key of the serialized calendar cache.
const cacheKey = "curbsignal:calendar-cache:v1"

// DefaultCacheTTL is how long the parsed calendar stays fresh.
const DefaultCacheTTL = 7 * 24 * time.Hour

// ErrCalendarUnavailable wraps fetch failures. The week cannot be built
// without the calendar, so callers propagate this.
var ErrCalendarUnavailable = errors.New("suspension calendar unavailable")

// CalendarProvider fetches and parses the yearly suspension calendar.
type CalendarProvider interface {
	Fetch(ctx context.Context, year int) (string, error)
	// Parse extracts the distinct suspended dates (YYYY-MM-DD) from raw
	// calendar text. Malformed input is an error, not an empty result.
	Parse(text string) ([]string, error)
}

// LiveStatusProvider checks for an out-of-band emergency suspension in
// effect today. Failures are recovered by the Oracle.
type LiveStatusProvider interface {
	Check(ctx context.Context) (model.LiveStatus, error)
}

// Status is the answer for one date.
type Status struct {
	Suspended bool
	Reason    string
}

// cacheEnvelope is the Store serialization of the parsed calendar.
type cacheEnvelope struct {
	Dates     []string  `json:"dates"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Oracle owns the suspension cache. One instance serves one decision
// pipeline; refreshes happen at most once per cycle via EnsureFresh.
type Oracle struct {
	zone     *civiltime.Zone
	calendar CalendarProvider
	live     LiveStatusProvider
	store    Store
	log      logger.Logger
	ttl      time.Duration
	observer func(success bool)

	mu        sync.Mutex
	dates     map[string]struct{}
	fetchedAt time.Time
}

// Option adjusts Oracle construction.
type Option func(*Oracle)

// WithCacheTTL overrides the calendar freshness window.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *Oracle) { o.ttl = ttl }
}

// WithLiveStatus attaches the live provider. Without it, only the calendar
// is consulted.
func WithLiveStatus(p LiveStatusProvider) Option {
	return func(o *Oracle) { o.live = p }
}

// WithRefreshObserver registers a callback invoked after every calendar
// refresh attempt with its outcome.
func WithRefreshObserver(fn func(success bool)) Option {
	return func(o *Oracle) { o.observer = fn }
}

// New creates an Oracle backed by the given calendar provider and store.
func New(zone *civiltime.Zone, calendar CalendarProvider, store Store, log logger.Logger, opts ...Option) *Oracle {
	o := &Oracle{
		zone:     zone,
		calendar: calendar,
		store:    store,
		log:      log,
		ttl:      DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// EnsureFresh guarantees the calendar cache is loaded and younger than the
// TTL. It is called once at the start of a cycle so per-day lookups never
// trigger their own refresh.
func (o *Oracle) EnsureFresh(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.zone.Now()

	if o.dates != nil && now.Sub(o.fetchedAt) < o.ttl {
		return nil
	}
	if o.loadFromStore(ctx, now) {
		return nil
	}
	return o.refresh(ctx, now)
}

// loadFromStore hydrates the in-memory cache from the Store if a fresh
// envelope exists.
func (o *Oracle) loadFromStore(ctx context.Context, now time.Time) bool {
	raw, ok, err := o.store.Get(ctx, cacheKey)
	if err != nil {
		o.log.Warnf("calendar cache read failed: %v", err)
		return false
	}
	if !ok {
		return false
	}
	var env cacheEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		o.log.Warnf("calendar cache corrupt, refetching: %v", err)
		return false
	}
	if now.Sub(env.FetchedAt) >= o.ttl {
		return false
	}
	o.setDates(env.Dates, env.FetchedAt)
	o.log.Debugf("calendar cache hit: %d suspension dates", len(env.Dates))
	return true
}

// refresh fetches and parses the calendar for the current civil year and
// persists the result. Fetch and parse failures propagate: without the
// calendar the week cannot be built.
func (o *Oracle) refresh(ctx context.Context, now time.Time) error {
	year := now.Year()
	text, err := o.calendar.Fetch(ctx, year)
	if err != nil {
		o.notifyRefresh(false)
		return fmt.Errorf("%w: fetch %d: %v", ErrCalendarUnavailable, year, err)
	}
	dates, err := o.calendar.Parse(text)
	if err != nil {
		o.notifyRefresh(false)
		return fmt.Errorf("parse calendar %d: %w", year, err)
	}
	o.notifyRefresh(true)
	o.setDates(dates, now)
	o.log.Infof("calendar refreshed: %d suspension dates for %d", len(dates), year)

	env := cacheEnvelope{Dates: dates, FetchedAt: now}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode calendar cache: %w", err)
	}
	if err := o.store.Set(ctx, cacheKey, raw); err != nil {
		// The in-memory copy is already usable.
		o.log.Warnf("calendar cache write failed: %v", err)
	}
	return nil
}

func (o *Oracle) notifyRefresh(success bool) {
	if o.observer != nil {
		o.observer(success)
	}
}

func (o *Oracle) setDates(dates []string, fetchedAt time.Time) {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	o.dates = set
	o.fetchedAt = fetchedAt
}

// IsSuspended reports whether enforcement is suspended on the given date.
// A calendar hit short-circuits with the holiday reason. For today only,
// the live provider is additionally consulted; its failures are swallowed
// and the calendar-only answer stands.
func (o *Oracle) IsSuspended(ctx context.Context, date time.Time) (Status, error) {
	if err := o.EnsureFresh(ctx); err != nil {
		return Status{}, err
	}

	o.mu.Lock()
	_, holiday := o.dates[o.zone.ISODate(date)]
	o.mu.Unlock()
	if holiday {
		return Status{Suspended: true, Reason: ReasonHoliday}, nil
	}

	if o.live != nil && o.zone.SameCivilDay(date, o.zone.Now()) {
		st, err := o.live.Check(ctx)
		if err != nil {
			o.log.Warnf("live status check failed, using calendar only: %v", err)
			return Status{}, nil
		}
		if st.SuspendedToday {
			reason := st.Reason
			if reason == "" {
				reason = ReasonEmergency
			}
			return Status{Suspended: true, Reason: reason}, nil
		}
	}
	return Status{}, nil
}

// SuspensionDates returns the cached suspended dates, sorted order not
// guaranteed. Mainly for diagnostics.
func (o *Oracle) SuspensionDates(ctx context.Context) ([]string, error) {
	if err := o.EnsureFresh(ctx); err != nil {
		return nil, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.dates))
	for d := range o.dates {
		out = append(out, d)
	}
	return out, nil
}
