package metrics

import (
	coremetrics "github.com/curbsignal/curbsignal/core/metrics"
	"github.com/curbsignal/curbsignal/infra/logger"
	"github.com/curbsignal/curbsignal/internal/eventbus"
)

// Recorder drains cycle events from the bus into a sink, keeping metric
// writes off the decision path.
type Recorder struct {
	bus  *eventbus.Bus
	sink coremetrics.Sink
	log  logger.Logger
	done chan struct{}
}

// NewRecorder subscribes to the bus and starts forwarding events.
func NewRecorder(bus *eventbus.Bus, sink coremetrics.Sink) *Recorder {
	r := &Recorder{bus: bus, sink: sink, log: logger.New("metrics-recorder"), done: make(chan struct{})}
	go r.run(bus.Subscribe())
	return r
}

func (r *Recorder) run(events <-chan eventbus.Event) {
	defer close(r.done)
	for ev := range events {
		var err error
		switch ev.Type {
		case eventbus.CycleCompleted:
			err = r.sink.RecordCycle(ev.Trigger, ev.Duration, ev.Failed)
		case eventbus.NotificationSent:
			err = r.sink.RecordNotification(ev.Kind, ev.Success)
		case eventbus.SuspensionDetected:
			err = r.sink.RecordSuspension(ev.Reason)
		case eventbus.CalendarRefreshed:
			err = r.sink.RecordCalendarRefresh(ev.Success)
		}
		if err != nil {
			r.log.Warnf("record %d: %v", ev.Type, err)
		}
	}
}

// Wait blocks until the bus is closed and all pending events are recorded.
func (r *Recorder) Wait() { <-r.done }
