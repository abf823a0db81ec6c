// Package civiltime implements day and week arithmetic in one fixed civil
// timezone. Every computation converts the instant into the zone first, so
// results are identical no matter which timezone the host process runs in.
package civiltime

import (
	"fmt"
	"time"

	"github.com/curbsignal/curbsignal/core/model"
)

// DefaultZone is the civil timezone the street-cleaning regime lives in.
const DefaultZone = "America/New_York"

// Workdays per week, Monday through Friday.
const workweekLen = 5

// Zone performs civil-time arithmetic in one fixed location.
type Zone struct {
	loc   *time.Location
	clock Clock
}

// NewZone loads the named IANA timezone. An empty name selects DefaultZone.
func NewZone(name string, clock Clock) (*Zone, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Zone{loc: loc, clock: clock}, nil
}

// Now returns the current instant expressed in the civil zone.
func (z *Zone) Now() time.Time {
	return z.clock.Now().In(z.loc)
}

// Location exposes the underlying timezone.
func (z *Zone) Location() *time.Location { return z.loc }

// DayOfWeek returns the civil day name of the instant. The conversion into
// the zone happens here, never via the host-local weekday.
func (z *Zone) DayOfWeek(t time.Time) model.Weekday {
	return model.WeekdayFromTime(t.In(z.loc).Weekday())
}

// Noon returns the instant's civil date anchored at 12:00 civil time.
// Anchoring at noon keeps dates stable across DST transitions: a nominal
// local time inside a spring-forward gap resolves to the post-transition
// offset, and noon itself never falls inside a transition window.
func (z *Zone) Noon(t time.Time) time.Time {
	lt := t.In(z.loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 12, 0, 0, 0, z.loc)
}

// MondayOfWeek resolves the Monday of the relevant workweek, at noon civil
// time. Monday through Friday map to the current week's Monday; Saturday and
// Sunday roll forward to the next week's Monday, since a weekend query always
// means "what should I do starting next week".
func (z *Zone) MondayOfWeek(t time.Time) time.Time {
	lt := t.In(z.loc)
	var offset int
	switch lt.Weekday() {
	case time.Sunday:
		offset = 1
	case time.Saturday:
		offset = 2
	default:
		offset = -(int(lt.Weekday()) - int(time.Monday))
	}
	return z.Noon(z.addDays(lt, offset))
}

// FridayOfWeek resolves the Friday of the same workweek as MondayOfWeek.
func (z *Zone) FridayOfWeek(t time.Time) time.Time {
	return z.addDays(z.MondayOfWeek(t), 4)
}

// WorkweekDates returns the five civil dates Monday through Friday of the
// week resolved by MondayOfWeek, each anchored at noon.
func (z *Zone) WorkweekDates(t time.Time) []time.Time {
	monday := z.MondayOfWeek(t)
	dates := make([]time.Time, workweekLen)
	for i := range dates {
		dates[i] = z.addDays(monday, i)
	}
	return dates
}

// SameCivilDay reports whether two instants fall on the same civil date.
func (z *Zone) SameCivilDay(a, b time.Time) bool {
	la, lb := a.In(z.loc), b.In(z.loc)
	return la.Year() == lb.Year() && la.YearDay() == lb.YearDay()
}

// ISODate formats the instant's civil date as YYYY-MM-DD. This is the key
// format of the suspension calendar.
func (z *Zone) ISODate(t time.Time) string {
	return t.In(z.loc).Format("2006-01-02")
}

// NextWeekday returns the first day strictly after start whose civil day
// name matches target, anchored at noon. Weekend targets return false: the
// rotation only applies Monday through Friday.
func (z *Zone) NextWeekday(start time.Time, target model.Weekday) (time.Time, bool) {
	if !target.IsWorkday() {
		return time.Time{}, false
	}
	d := z.addDays(z.Noon(start), 1)
	for i := 0; i < 14; i++ {
		if z.DayOfWeek(d) == target {
			return d, true
		}
		d = z.addDays(d, 1)
	}
	return time.Time{}, false
}

// addDays steps whole civil days rather than 24-hour spans, so a DST
// transition inside the range cannot shift the resulting date.
func (z *Zone) addDays(t time.Time, days int) time.Time {
	lt := t.In(z.loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day()+days, lt.Hour(), lt.Minute(), lt.Second(), lt.Nanosecond(), z.loc)
}
