package decision

import (
	"testing"
	"time"

	"github.com/curbsignal/curbsignal/core/civiltime"
	"github.com/curbsignal/curbsignal/core/model"
	"github.com/curbsignal/curbsignal/core/week"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func testEngine(t *testing.T) (*Engine, *civiltime.Zone) {
	t.Helper()
	zone, err := civiltime.NewZone("", nil)
	if err != nil {
		t.Fatalf("zone: %v", err)
	}
	return New(zone, nopLogger{}), zone
}

// testWeek builds the optimized week of Monday 2025-10-06 under the given
// schedule, with the listed dates suspended.
func testWeek(t *testing.T, zone *civiltime.Zone, near, far model.DaySet, suspended ...string) model.WeekView {
	t.Helper()
	monday := time.Date(2025, 10, 6, 12, 0, 0, 0, zone.Location())
	isSuspended := func(iso string) bool {
		for _, s := range suspended {
			if s == iso {
				return true
			}
		}
		return false
	}

	names := []model.Weekday{model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday}
	days := make([]model.DayFact, 5)
	for i := range days {
		date := monday.AddDate(0, 0, i)
		dow := names[i]
		nearClean := near.Contains(dow)
		farClean := far.Contains(dow)
		susp := isSuspended(zone.ISODate(date))
		side := model.SideUnset
		if !susp {
			if nearClean {
				side = model.SideFar
			} else if farClean {
				side = model.SideNear
			}
		}
		days[i] = model.DayFact{
			Date:                date,
			DayOfWeek:           dow,
			HasNearSideCleaning: nearClean,
			HasFarSideCleaning:  farClean,
			IsSuspended:         susp,
			ParkOnSide:          side,
		}
	}
	return week.Optimize(model.WeekView{StartDate: monday, EndDate: monday.AddDate(0, 0, 4), Days: days})
}

func standardSets() (model.DaySet, model.DaySet) {
	return model.NewDaySet(model.Monday, model.Thursday), model.NewDaySet(model.Tuesday, model.Friday)
}

func nyDate(zone *civiltime.Zone, day int) time.Time {
	return time.Date(2025, 10, day, 10, 0, 0, 0, zone.Location())
}

func TestDecide_MultiDayHolidayNoMove(t *testing.T) {
	e, zone := testEngine(t)
	near, far := standardSets()
	w := testWeek(t, zone, near, far, "2025-10-07", "2025-10-08")

	// Monday: car inferred on far; the next enforced cleaning day is
	// Thursday, also far. No move.
	d := e.Decide(w, nyDate(zone, 6))
	if d.ShouldMove {
		t.Fatalf("expected no move, got %+v", d)
	}
}

func TestDecide_TuesdayMoveToFar(t *testing.T) {
	e, zone := testEngine(t)
	near, far := standardSets()
	w := testWeek(t, zone, near, far)

	d := e.Decide(w, nyDate(zone, 7))
	if !d.ShouldMove {
		t.Fatal("expected a move")
	}
	if d.CurrentSide != model.SideNear || d.TargetSide != model.SideFar {
		t.Fatalf("expected near->far, got %s->%s", d.CurrentSide, d.TargetSide)
	}
	if zone.ISODate(d.NextMoveDate) != "2025-10-09" {
		t.Fatalf("expected Thursday, got %s", zone.ISODate(d.NextMoveDate))
	}
}

func TestDecide_NeverOnFriday(t *testing.T) {
	e, zone := testEngine(t)
	near, far := standardSets()
	w := testWeek(t, zone, near, far)

	if d := e.Decide(w, nyDate(zone, 10)); d.ShouldMove {
		t.Fatalf("Friday must never signal a move, got %+v", d)
	}
}

func TestDecide_SuspendedTodayNoMove(t *testing.T) {
	e, zone := testEngine(t)
	near, far := standardSets()
	w := testWeek(t, zone, near, far, "2025-10-07")

	if d := e.Decide(w, nyDate(zone, 7)); d.ShouldMove {
		t.Fatalf("suspended day must not signal a move, got %+v", d)
	}
}

func TestDecide_NoCleaningTodayNoMove(t *testing.T) {
	e, zone := testEngine(t)
	near, far := standardSets()
	w := testWeek(t, zone, near, far)

	if d := e.Decide(w, nyDate(zone, 8)); d.ShouldMove {
		t.Fatalf("cleaning-free day must not signal a move, got %+v", d)
	}
}

func TestDecide_NoMatchingDay(t *testing.T) {
	e, zone := testEngine(t)
	near, far := standardSets()
	w := testWeek(t, zone, near, far)

	// A date outside the built week.
	if d := e.Decide(w, time.Date(2025, 10, 20, 10, 0, 0, 0, zone.Location())); d.ShouldMove {
		t.Fatalf("out-of-week date must not signal a move, got %+v", d)
	}
}

func TestDecide_MondayCarryOver(t *testing.T) {
	e, zone := testEngine(t)
	near := model.NewDaySet(model.Tuesday)
	far := model.NewDaySet(model.Monday)
	w := testWeek(t, zone, near, far)

	// Tuesday is the last cleaning day of the week; the next relevant day
	// is next Monday, which needs the near side.
	d := e.Decide(w, nyDate(zone, 7))
	if !d.ShouldMove {
		t.Fatal("expected a move into next week")
	}
	if d.CurrentSide != model.SideFar || d.TargetSide != model.SideNear {
		t.Fatalf("expected far->near, got %s->%s", d.CurrentSide, d.TargetSide)
	}
	if zone.ISODate(d.NextMoveDate) != "2025-10-13" {
		t.Fatalf("expected next Monday 2025-10-13, got %s", zone.ISODate(d.NextMoveDate))
	}
}

func TestDecide_MondayCarryOverSuspended(t *testing.T) {
	e, zone := testEngine(t)
	near := model.NewDaySet(model.Tuesday)
	far := model.NewDaySet(model.Monday)
	w := testWeek(t, zone, near, far, "2025-10-06")

	// The Monday pattern is suspended, so the carry-over does not apply.
	if d := e.Decide(w, nyDate(zone, 7)); d.ShouldMove {
		t.Fatalf("suspended Monday must not trigger carry-over, got %+v", d)
	}
}

func TestDecide_TargetAlwaysDiffersFromCurrent(t *testing.T) {
	e, zone := testEngine(t)
	near, far := standardSets()

	suspensionSets := [][]string{
		nil,
		{"2025-10-07"},
		{"2025-10-07", "2025-10-08"},
		{"2025-10-09", "2025-10-10"},
		{"2025-10-06", "2025-10-07", "2025-10-08", "2025-10-09", "2025-10-10"},
	}
	for _, susp := range suspensionSets {
		w := testWeek(t, zone, near, far, susp...)
		for day := 6; day <= 10; day++ {
			d := e.Decide(w, nyDate(zone, day))
			if d.ShouldMove && d.CurrentSide == d.TargetSide {
				t.Fatalf("day %d susp %v: move with identical sides %+v", day, susp, d)
			}
		}
	}
}
