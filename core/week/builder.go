// Package week builds the workweek schedule and resolves the side to park
// on for every day.
package week

import (
	"context"
	"fmt"
	"time"

	"github.com/curbsignal/curbsignal/core/civiltime"
	"github.com/curbsignal/curbsignal/core/model"
	"github.com/curbsignal/curbsignal/core/suspension"
)

// Schedule is the configured cleaning regime: which civil days each side is
// cleaned on. The two sets are expected to be disjoint but that is a
// configuration concern, not enforced here.
type Schedule struct {
	NearSideDays model.DaySet
	FarSideDays  model.DaySet
}

// Builder assembles the raw, pre-optimization WeekView.
type Builder struct {
	zone     *civiltime.Zone
	oracle   *suspension.Oracle
	schedule Schedule
}

// NewBuilder wires the builder to its civil zone, oracle and schedule.
func NewBuilder(zone *civiltime.Zone, oracle *suspension.Oracle, schedule Schedule) *Builder {
	return &Builder{zone: zone, oracle: oracle, schedule: schedule}
}

// Build produces the five-day week containing (or, on weekends, following)
// the reference instant. Each day carries its cleaning facts and suspension
// status; ParkOnSide is the side opposite the cleaning side, left unset for
// suspended or cleaning-free days so the optimizer can decide.
func (b *Builder) Build(ctx context.Context, ref time.Time) (model.WeekView, error) {
	if err := b.oracle.EnsureFresh(ctx); err != nil {
		return model.WeekView{}, fmt.Errorf("build week: %w", err)
	}

	dates := b.zone.WorkweekDates(ref)
	days := make([]model.DayFact, 0, len(dates))
	for _, date := range dates {
		dow := b.zone.DayOfWeek(date)
		near := b.schedule.NearSideDays.Contains(dow)
		far := b.schedule.FarSideDays.Contains(dow)

		st, err := b.oracle.IsSuspended(ctx, date)
		if err != nil {
			return model.WeekView{}, fmt.Errorf("build week: suspension check %s: %w", b.zone.ISODate(date), err)
		}

		days = append(days, model.DayFact{
			Date:                date,
			DayOfWeek:           dow,
			HasNearSideCleaning: near,
			HasFarSideCleaning:  far,
			IsSuspended:         st.Suspended,
			SuspensionReason:    st.Reason,
			ParkOnSide:          rawSide(near, far, st.Suspended),
		})
	}

	return model.WeekView{
		StartDate: b.zone.MondayOfWeek(ref),
		EndDate:   b.zone.FridayOfWeek(ref),
		Days:      days,
	}, nil
}

// rawSide derives the side choice from the day's own facts. Suspension
// overrides cleaning: the choice then depends on the rest of the week and
// is deferred to the optimizer.
func rawSide(near, far, suspended bool) model.Side {
	if suspended {
		return model.SideUnset
	}
	if near {
		return model.SideFar
	}
	if far {
		return model.SideNear
	}
	return model.SideUnset
}
