package metrics

import (
	"time"

	coremetrics "github.com/curbsignal/curbsignal/core/metrics"
)

// MultiSink fans observations out to multiple sinks, returning the first
// error encountered.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) RecordCycle(trigger string, d time.Duration, failed bool) error {
	for _, s := range m.Sinks {
		if err := s.RecordCycle(trigger, d, failed); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordNotification(kind string, success bool) error {
	for _, s := range m.Sinks {
		if err := s.RecordNotification(kind, success); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordSuspension(reason string) error {
	for _, s := range m.Sinks {
		if err := s.RecordSuspension(reason); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordCalendarRefresh(success bool) error {
	for _, s := range m.Sinks {
		if err := s.RecordCalendarRefresh(success); err != nil {
			return err
		}
	}
	return nil
}
