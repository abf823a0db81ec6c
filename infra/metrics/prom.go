// Package metrics implements the cycle metric sinks: Prometheus, InfluxDB,
// a fan-out over both, and the /metrics HTTP server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/curbsignal/curbsignal/core/metrics"
)

// PromSink records cycle observations in Prometheus metrics.
type PromSink struct {
	cycles        *prometheus.CounterVec
	cycleDuration *prometheus.HistogramVec
	notifications *prometheus.CounterVec
	suspensions   *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
}

// NewPromSink registers the cycle metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "curbsignal_cycles_total",
		Help: "Total number of decision cycles",
	}, []string{"trigger", "failed"})
	cycleDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "curbsignal_cycle_duration_seconds",
		Help:    "Duration of one decision cycle",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "curbsignal_notifications_total",
		Help: "Notifications sent, by kind and outcome",
	}, []string{"kind", "success"})
	suspensions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "curbsignal_suspensions_total",
		Help: "Suspensions observed for today, by reason",
	}, []string{"reason"})
	refreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "curbsignal_calendar_refresh_total",
		Help: "Calendar cache refreshes, by outcome",
	}, []string{"success"})

	s := &PromSink{
		cycles:        cycles,
		cycleDuration: cycleDuration,
		notifications: notifications,
		suspensions:   suspensions,
		refreshes:     refreshes,
	}
	for _, c := range []prometheus.Collector{cycles, cycleDuration, notifications, suspensions, refreshes} {
		if err := register(reg, c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// RecordCycle counts the cycle and observes its duration.
func (s *PromSink) RecordCycle(trigger string, duration time.Duration, failed bool) error {
	s.cycles.WithLabelValues(trigger, strconv.FormatBool(failed)).Inc()
	s.cycleDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	return nil
}

// RecordNotification counts a sent (or failed) notification.
func (s *PromSink) RecordNotification(kind string, success bool) error {
	s.notifications.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
	return nil
}

// RecordSuspension counts a suspension observed for today.
func (s *PromSink) RecordSuspension(reason string) error {
	s.suspensions.WithLabelValues(reason).Inc()
	return nil
}

// RecordCalendarRefresh counts a calendar cache refresh.
func (s *PromSink) RecordCalendarRefresh(success bool) error {
	s.refreshes.WithLabelValues(strconv.FormatBool(success)).Inc()
	return nil
}

var _ coremetrics.Sink = (*PromSink)(nil)
