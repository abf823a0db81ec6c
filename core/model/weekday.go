package model

import "time"

// Weekday is the short civil day name used across configuration and
// schedules. The zero value is invalid.
type Weekday string

const (
	Sunday    Weekday = "Sun"
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
)

// weekdayNames is indexed by the civil day index (Sun=0 .. Sat=6).
var weekdayNames = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayFromTime maps a Go weekday to its civil short name.
func WeekdayFromTime(d time.Weekday) Weekday {
	return weekdayNames[int(d)%7]
}

// ParseWeekday validates a configuration day name.
func ParseWeekday(s string) (Weekday, bool) {
	for _, d := range weekdayNames {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// IsWorkday reports whether the day is Monday through Friday.
func (d Weekday) IsWorkday() bool {
	return d != Saturday && d != Sunday
}

// DaySet is a set of civil day names, typically one cleaning side's schedule.
type DaySet map[Weekday]struct{}

// NewDaySet builds a set from day names.
func NewDaySet(days ...Weekday) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

// Contains reports whether the day is part of the set.
func (s DaySet) Contains(d Weekday) bool {
	_, ok := s[d]
	return ok
}
