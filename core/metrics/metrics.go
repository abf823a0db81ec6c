// Package metrics defines the sink contract the decision pipeline reports
// into. Concrete sinks live under infra/metrics.
package metrics

import "time"

// Sink records cycle-level observations. Implementations must be safe for
// use from a single recorder goroutine.
type Sink interface {
	RecordCycle(trigger string, duration time.Duration, failed bool) error
	RecordNotification(kind string, success bool) error
	RecordSuspension(reason string) error
	RecordCalendarRefresh(success bool) error
}

// NopSink discards all observations.
type NopSink struct{}

func (NopSink) RecordCycle(string, time.Duration, bool) error { return nil }
func (NopSink) RecordNotification(string, bool) error         { return nil }
func (NopSink) RecordSuspension(string) error                 { return nil }
func (NopSink) RecordCalendarRefresh(bool) error              { return nil }

// Config selects and configures the metrics sinks.
type Config struct {
	PrometheusEnabled bool         `json:"prometheus_enabled"`
	PrometheusPort    string       `json:"prometheus_port"`
	InfluxEnabled     bool         `json:"influx_enabled"`
	Influx            InfluxConfig `json:"influx"`
}

// InfluxConfig holds the InfluxDB connection settings.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "2112"
	}
}
