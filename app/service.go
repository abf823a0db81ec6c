// Package app wires the decision pipeline together and runs it on schedule.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/curbsignal/curbsignal/config"
	"github.com/curbsignal/curbsignal/core/civiltime"
	"github.com/curbsignal/curbsignal/core/decision"
	coremetrics "github.com/curbsignal/curbsignal/core/metrics"
	"github.com/curbsignal/curbsignal/core/model"
	"github.com/curbsignal/curbsignal/core/notify"
	"github.com/curbsignal/curbsignal/core/suspension"
	"github.com/curbsignal/curbsignal/core/week"
	"github.com/curbsignal/curbsignal/infra/cache"
	"github.com/curbsignal/curbsignal/infra/calendar"
	"github.com/curbsignal/curbsignal/infra/logger"
	"github.com/curbsignal/curbsignal/infra/metrics"
	"github.com/curbsignal/curbsignal/infra/scraper"
	"github.com/curbsignal/curbsignal/infra/slack"
	"github.com/curbsignal/curbsignal/internal/eventbus"
)

// Force values override the trigger windows for one cycle.
const (
	ForceNone      = ""
	ForceSummary   = "summary"
	ForceMove      = "move"
	ForceEmergency = "emergency"
)

// Service owns one decision pipeline: oracle, week builder, optimizer,
// decision engine and notifier, plus the observers around them.
type Service struct {
	cfg      *config.Config
	zone     *civiltime.Zone
	oracle   *suspension.Oracle
	builder  *week.Builder
	engine   *decision.Engine
	composer notify.Composer
	notifier notify.Notifier
	bus      *eventbus.Bus
	recorder *metrics.Recorder
	log      logger.Logger

	promEnabled bool
	promPort    string
	closers     []io.Closer
}

// New creates a Service from the configuration. A nil clock selects the
// system clock.
func New(cfg *config.Config, clock civiltime.Clock) (*Service, error) {
	logg := logger.New("service")
	zone, err := civiltime.NewZone(cfg.Timezone, clock)
	if err != nil {
		return nil, err
	}

	var closers []io.Closer
	var store suspension.Store
	switch cfg.Cache.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rs, err := cache.NewRedisStore(ctx, cfg.Cache.Redis)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("cache backend: %w", err)
		}
		store = rs
		closers = append(closers, rs)
	default:
		store = cache.NewMemoryStore()
	}

	bus := eventbus.New()

	cal := calendar.NewClient(cfg.Calendar, logger.New("calendar"))
	live := scraper.New(cfg.Scraper, zone, logger.New("scraper"))
	oracle := suspension.New(zone, cal, store, logger.New("suspension"),
		suspension.WithLiveStatus(live),
		suspension.WithRefreshObserver(func(success bool) {
			bus.Publish(eventbus.Event{Type: eventbus.CalendarRefreshed, At: zone.Now(), Success: success})
		}))

	near, far := cfg.Schedule.DaySets()
	builder := week.NewBuilder(zone, oracle, week.Schedule{NearSideDays: near, FarSideDays: far})
	engine := decision.New(zone, logger.New("decision"))
	composer := slack.NewComposer(zone, cfg.Schedule.NearSideLabel, cfg.Schedule.FarSideLabel)
	notifier := slack.NewWebhook(cfg.Slack, logger.New("slack"))

	sink := buildSink(cfg.Metrics)
	recorder := metrics.NewRecorder(bus, sink)

	return &Service{
		cfg:         cfg,
		zone:        zone,
		oracle:      oracle,
		builder:     builder,
		engine:      engine,
		composer:    composer,
		notifier:    notifier,
		bus:         bus,
		recorder:    recorder,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
		closers:     closers,
	}, nil
}

func buildSink(cfg coremetrics.Config) coremetrics.Sink {
	var sinks []coremetrics.Sink
	if cfg.PrometheusEnabled {
		if sink, err := metrics.NewPromSink(); err == nil {
			sinks = append(sinks, sink)
		} else {
			logger.New("metrics").Errorf("prom sink: %v", err)
		}
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Influx))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}
	case 1:
		return sinks[0]
	default:
		return metrics.NewMultiSink(sinks...)
	}
}

// Run blocks, executing one decision cycle at the top of every hour until
// the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	for {
		next := s.zone.Now().Truncate(time.Hour).Add(time.Hour)
		wait := time.Until(next)
		s.log.Debugf("next cycle at %s", next.Format(time.RFC3339))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
			if err := s.RunCycle(ctx, ForceNone); err != nil {
				s.log.Errorf("cycle failed: %v", err)
			}
		}
	}
}

// RunCycle executes one decision cycle: evaluate the trigger windows for
// the current civil hour and send whatever notifications are due. Any error
// is converted at this boundary into a best-effort error notification.
func (s *Service) RunCycle(ctx context.Context, force string) error {
	cycleID := uuid.NewString()
	now := s.zone.Now()
	start := time.Now()
	s.bus.Publish(eventbus.Event{Type: eventbus.CycleStarted, CycleID: cycleID, At: now, Trigger: force})
	s.log.Infof("cycle %s at %s", cycleID, now.Format("2006-01-02 15:04"))

	err := s.runTriggers(ctx, now, force)
	if err != nil {
		s.log.Errorf("cycle %s: %v", cycleID, err)
		msg := s.composer.Error(err.Error())
		if sendErr := s.send(ctx, cycleID, msg); sendErr != nil {
			// Never retried beyond the notifier's own budget.
			s.log.Errorf("cycle %s: error notification failed: %v", cycleID, sendErr)
		}
	}

	s.bus.Publish(eventbus.Event{
		Type:     eventbus.CycleCompleted,
		CycleID:  cycleID,
		At:       s.zone.Now(),
		Trigger:  force,
		Duration: time.Since(start),
		Failed:   err != nil,
	})
	return err
}

func (s *Service) runTriggers(ctx context.Context, now time.Time, force string) error {
	day := s.zone.DayOfWeek(now)
	hour := now.Hour()
	t := s.cfg.Triggers

	if force == ForceSummary || (force == ForceNone && t.WeeklySummary.Matches(day, hour)) {
		if err := s.sendWeeklySummary(ctx, now); err != nil {
			return err
		}
	}
	if force == ForceMove || (force == ForceNone && t.MoveReminder.Matches(day, hour)) {
		if err := s.checkMoveReminder(ctx, now); err != nil {
			return err
		}
	}
	if force == ForceEmergency || (force == ForceNone && t.EmergencyCheck.Matches(day, hour)) {
		if err := s.checkEmergencySuspension(ctx, now); err != nil {
			return err
		}
	}
	return nil
}

// BuildWeek returns the optimized week for the reference instant.
func (s *Service) BuildWeek(ctx context.Context, ref time.Time) (model.WeekView, error) {
	raw, err := s.builder.Build(ctx, ref)
	if err != nil {
		return model.WeekView{}, err
	}
	return week.Optimize(raw), nil
}

func (s *Service) sendWeeklySummary(ctx context.Context, now time.Time) error {
	s.log.Infof("sending weekly summary")
	w, err := s.BuildWeek(ctx, now)
	if err != nil {
		return fmt.Errorf("weekly summary: %w", err)
	}
	return s.send(ctx, "", s.composer.WeeklySummary(w))
}

func (s *Service) checkMoveReminder(ctx context.Context, now time.Time) error {
	w, err := s.BuildWeek(ctx, now)
	if err != nil {
		return fmt.Errorf("move reminder: %w", err)
	}
	d := s.engine.Decide(w, now)
	if !d.ShouldMove {
		s.log.Infof("no move needed today")
		return nil
	}
	s.log.Infof("move needed: %s -> %s for %s", d.CurrentSide, d.TargetSide, s.zone.ISODate(d.NextMoveDate))
	return s.send(ctx, "", s.composer.MoveReminder(d))
}

// checkEmergencySuspension alerts when today's enforcement is suspended for
// anything other than a calendar holiday. Holidays are already covered by
// the weekly summary.
func (s *Service) checkEmergencySuspension(ctx context.Context, now time.Time) error {
	day := s.zone.DayOfWeek(now)
	near, far := s.cfg.Schedule.DaySets()
	if !near.Contains(day) && !far.Contains(day) {
		s.log.Debugf("no cleaning scheduled today, skipping emergency check")
		return nil
	}

	st, err := s.oracle.IsSuspended(ctx, now)
	if err != nil {
		return fmt.Errorf("emergency check: %w", err)
	}
	if !st.Suspended {
		s.log.Debugf("no suspension in effect today")
		return nil
	}
	s.bus.Publish(eventbus.Event{Type: eventbus.SuspensionDetected, At: now, Reason: st.Reason})
	if st.Reason == suspension.ReasonHoliday {
		s.log.Debugf("holiday suspension, covered by the weekly summary")
		return nil
	}
	s.log.Infof("emergency suspension detected: %s", st.Reason)
	return s.send(ctx, "", s.composer.EmergencyAlert(st.Reason))
}

func (s *Service) send(ctx context.Context, cycleID string, msg notify.Message) error {
	err := s.notifier.Send(ctx, msg)
	s.bus.Publish(eventbus.Event{
		Type:    eventbus.NotificationSent,
		CycleID: cycleID,
		At:      s.zone.Now(),
		Kind:    string(msg.Kind),
		Success: err == nil,
	})
	return err
}

// Close shuts down the observers and releases external connections.
func (s *Service) Close() error {
	s.bus.Close()
	s.recorder.Wait()
	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
