// Package decision implements the move/notify state machine. Decide is a
// pure function of the optimized week and the current instant: no I/O, no
// mutation of its inputs.
package decision

import (
	"time"

	"github.com/curbsignal/curbsignal/core/civiltime"
	"github.com/curbsignal/curbsignal/core/logger"
	"github.com/curbsignal/curbsignal/core/model"
)

// Engine evaluates whether the car must change sides.
type Engine struct {
	zone *civiltime.Zone
	log  logger.Logger
}

// New creates an Engine bound to the civil zone.
func New(zone *civiltime.Zone, log logger.Logger) *Engine {
	return &Engine{zone: zone, log: log}
}

// Decide determines whether a move alert is due right now.
//
// The car's current side is inferred from today's cleaning: cleaning forces
// the car off that side, so it must already be on the other one. A move is
// only signalled when the next enforced cleaning day needs the opposite
// side. Fridays never signal: the weekend removes any pressure to
// pre-position, Monday is the next real decision point.
func (e *Engine) Decide(w model.WeekView, now time.Time) model.MoveDecision {
	today, ok := w.DayOn(now, e.zone.SameCivilDay)
	if !ok {
		e.log.Debugf("decision: no matching day in week for %s", e.zone.ISODate(now))
		return model.MoveDecision{}
	}

	switch {
	case !today.HasCleaning():
		e.log.Debugf("decision: %s has no cleaning", today.DayOfWeek)
		return model.MoveDecision{}
	case today.IsSuspended:
		e.log.Debugf("decision: %s suspended (%s)", today.DayOfWeek, today.SuspensionReason)
		return model.MoveDecision{}
	case today.DayOfWeek == model.Friday:
		e.log.Debugf("decision: Friday, weekend ahead")
		return model.MoveDecision{}
	}

	currentSide := today.CleaningSide().Opposite()

	next, ok := e.nextCleaningDay(w, today)
	if !ok {
		e.log.Debugf("decision: no further cleaning day this week")
		return model.MoveDecision{}
	}
	if next.ParkOnSide == currentSide {
		e.log.Debugf("decision: already on %s side for %s", currentSide, next.DayOfWeek)
		return model.MoveDecision{}
	}

	return model.MoveDecision{
		ShouldMove:   true,
		CurrentSide:  currentSide,
		TargetSide:   next.ParkOnSide,
		NextMoveDate: next.Date,
	}
}

// nextCleaningDay finds the first day strictly after today, within the week,
// with enforced cleaning. When the week is exhausted it falls back to the
// upcoming Monday, using the week's Monday as the pattern for next week's:
// the schedule repeats weekly and holidays for the following week are
// resolved when that week is built.
func (e *Engine) nextCleaningDay(w model.WeekView, today model.DayFact) (model.DayFact, bool) {
	idx := -1
	for i, d := range w.Days {
		if e.zone.SameCivilDay(d.Date, today.Date) {
			idx = i
			break
		}
	}
	for i := idx + 1; i < len(w.Days); i++ {
		d := w.Days[i]
		if !d.IsSuspended && d.HasCleaning() {
			return d, true
		}
	}

	// Friday-to-Monday carry-over, reachable from Mon-Thu when the rest of
	// the week is suspended or cleaning-free.
	for _, d := range w.Days {
		if d.DayOfWeek != model.Monday {
			continue
		}
		if d.IsSuspended || !d.HasCleaning() {
			break
		}
		next := d
		if date, ok := e.zone.NextWeekday(today.Date, model.Monday); ok {
			next.Date = date
		}
		return next, true
	}
	return model.DayFact{}, false
}
