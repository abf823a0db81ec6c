package model

import "time"

// DayFact captures everything known about one workweek day: the cleaning
// schedule, the suspension status and the resolved side choice. Dates are
// civil dates anchored at noon so that DST transitions cannot shift them
// across a midnight boundary.
type DayFact struct {
	Date                time.Time
	DayOfWeek           Weekday
	HasNearSideCleaning bool
	HasFarSideCleaning  bool
	IsSuspended         bool
	SuspensionReason    string
	ParkOnSide          Side
}

// HasCleaning reports whether either side is cleaned on this day.
func (d DayFact) HasCleaning() bool {
	return d.HasNearSideCleaning || d.HasFarSideCleaning
}

// CleaningSide returns the side being cleaned, or SideUnset when the day has
// no cleaning.
func (d DayFact) CleaningSide() Side {
	switch {
	case d.HasNearSideCleaning:
		return SideNear
	case d.HasFarSideCleaning:
		return SideFar
	default:
		return SideUnset
	}
}

// WeekView is one target workweek: exactly five DayFacts ordered Monday
// through Friday, plus the week's bounds.
type WeekView struct {
	StartDate time.Time // Monday
	EndDate   time.Time // Friday
	Days      []DayFact
}

// DayOn returns the DayFact whose civil date matches the given date, using
// the provided same-day comparison.
func (w WeekView) DayOn(t time.Time, sameDay func(a, b time.Time) bool) (DayFact, bool) {
	for _, d := range w.Days {
		if sameDay(d.Date, t) {
			return d, true
		}
	}
	return DayFact{}, false
}

// MoveDecision is the outcome of one decision cycle. It is recomputed on
// every invocation and never persisted.
type MoveDecision struct {
	ShouldMove   bool
	CurrentSide  Side
	TargetSide   Side
	NextMoveDate time.Time
}

// LiveStatus is the result of an out-of-band suspension check for today.
type LiveStatus struct {
	SuspendedToday bool
	Reason         string
	CheckedAt      time.Time
}
