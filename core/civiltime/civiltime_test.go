package civiltime

import (
	"testing"
	"time"

	"github.com/curbsignal/curbsignal/core/model"
)

func mustZone(t *testing.T, clock Clock) *Zone {
	t.Helper()
	z, err := NewZone("", clock)
	if err != nil {
		t.Fatalf("zone: %v", err)
	}
	return z
}

func TestDayOfWeek_HostTimezoneIndependent(t *testing.T) {
	z := mustZone(t, nil)

	// 2025-10-07 01:30 UTC is still Monday Oct 6 in New York.
	instant := time.Date(2025, 10, 7, 1, 30, 0, 0, time.UTC)

	got := z.DayOfWeek(instant)
	if got != model.Monday {
		t.Fatalf("expected Mon, got %s", got)
	}

	// The same instant expressed in other locations must not change the
	// answer.
	for _, name := range []string{"UTC", "Asia/Tokyo", "Europe/Paris", "Pacific/Auckland"} {
		loc, err := time.LoadLocation(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if got := z.DayOfWeek(instant.In(loc)); got != model.Monday {
			t.Errorf("%s: expected Mon, got %s", name, got)
		}
	}
}

func TestMondayOfWeek_Policy(t *testing.T) {
	z := mustZone(t, nil)
	ny := z.Location()

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"monday maps to itself", time.Date(2025, 10, 6, 8, 0, 0, 0, ny), "2025-10-06"},
		{"wednesday maps back", time.Date(2025, 10, 8, 23, 0, 0, 0, ny), "2025-10-06"},
		{"friday maps back", time.Date(2025, 10, 10, 6, 0, 0, 0, ny), "2025-10-06"},
		{"saturday rolls forward", time.Date(2025, 10, 11, 10, 0, 0, 0, ny), "2025-10-13"},
		{"sunday rolls forward", time.Date(2025, 10, 12, 22, 0, 0, 0, ny), "2025-10-13"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := z.MondayOfWeek(c.now)
			if z.ISODate(got) != c.want {
				t.Fatalf("expected %s, got %s", c.want, z.ISODate(got))
			}
			if got.Hour() != 12 {
				t.Fatalf("expected noon anchor, got hour %d", got.Hour())
			}
		})
	}
}

func TestMondayOfWeek_WeekendStrictlyAfterFriday(t *testing.T) {
	z := mustZone(t, nil)
	ny := z.Location()

	friday := time.Date(2025, 10, 10, 9, 0, 0, 0, ny)
	fromFriday := z.MondayOfWeek(friday)

	for _, weekend := range []time.Time{
		time.Date(2025, 10, 11, 0, 30, 0, 0, ny),
		time.Date(2025, 10, 12, 23, 30, 0, 0, ny),
	} {
		got := z.MondayOfWeek(weekend)
		if !got.After(fromFriday) {
			t.Fatalf("weekend Monday %s not after Friday's Monday %s", got, fromFriday)
		}
	}
}

func TestWorkweekDates(t *testing.T) {
	z := mustZone(t, nil)
	ny := z.Location()

	dates := z.WorkweekDates(time.Date(2025, 10, 8, 15, 0, 0, 0, ny))
	if len(dates) != 5 {
		t.Fatalf("expected 5 dates, got %d", len(dates))
	}
	wantDays := []model.Weekday{model.Monday, model.Tuesday, model.Wednesday, model.Thursday, model.Friday}
	wantISO := []string{"2025-10-06", "2025-10-07", "2025-10-08", "2025-10-09", "2025-10-10"}
	for i, d := range dates {
		if z.DayOfWeek(d) != wantDays[i] {
			t.Errorf("index %d: expected %s, got %s", i, wantDays[i], z.DayOfWeek(d))
		}
		if z.ISODate(d) != wantISO[i] {
			t.Errorf("index %d: expected %s, got %s", i, wantISO[i], z.ISODate(d))
		}
		if d.Hour() != 12 {
			t.Errorf("index %d: expected noon anchor, got hour %d", i, d.Hour())
		}
	}
}

func TestWorkweekDates_SpringForward(t *testing.T) {
	z := mustZone(t, nil)
	ny := z.Location()

	// DST starts 2025-03-09 in New York; the week containing it must still
	// produce five consecutive dates at noon, with no duplicate or skipped
	// day.
	dates := z.WorkweekDates(time.Date(2025, 3, 10, 2, 30, 0, 0, ny))
	wantISO := []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14"}
	for i, d := range dates {
		if z.ISODate(d) != wantISO[i] {
			t.Errorf("index %d: expected %s, got %s", i, wantISO[i], z.ISODate(d))
		}
		if d.Hour() != 12 {
			t.Errorf("index %d: noon anchor lost across DST, hour %d", i, d.Hour())
		}
	}
}

func TestNoon_GapInstantResolves(t *testing.T) {
	z := mustZone(t, nil)

	// 2025-03-09 02:30 does not exist in New York; constructing it must
	// resolve to a valid instant rather than failing, and its civil date
	// must anchor to noon of March 9.
	gap := time.Date(2025, 3, 9, 2, 30, 0, 0, z.Location())
	noon := z.Noon(gap)
	if noon.Hour() != 12 {
		t.Fatalf("expected noon, got %d", noon.Hour())
	}
	if got := z.ISODate(noon); got != "2025-03-09" {
		t.Fatalf("expected 2025-03-09, got %s", got)
	}
}

func TestSameCivilDay(t *testing.T) {
	z := mustZone(t, nil)

	// 2025-10-07 02:00 UTC and 2025-10-06 20:00 UTC are both Oct 6 in New
	// York despite straddling midnight UTC.
	a := time.Date(2025, 10, 7, 2, 0, 0, 0, time.UTC)
	b := time.Date(2025, 10, 6, 20, 0, 0, 0, time.UTC)
	if !z.SameCivilDay(a, b) {
		t.Fatal("expected same civil day")
	}

	c := time.Date(2025, 10, 7, 17, 0, 0, 0, time.UTC)
	if z.SameCivilDay(a, c) {
		t.Fatal("expected different civil days")
	}
}

func TestNextWeekday(t *testing.T) {
	z := mustZone(t, nil)
	ny := z.Location()
	thursday := time.Date(2025, 10, 9, 12, 0, 0, 0, ny)

	got, ok := z.NextWeekday(thursday, model.Monday)
	if !ok {
		t.Fatal("expected a next Monday")
	}
	if z.ISODate(got) != "2025-10-13" {
		t.Fatalf("expected 2025-10-13, got %s", z.ISODate(got))
	}

	if _, ok := z.NextWeekday(thursday, model.Saturday); ok {
		t.Fatal("weekend target must not resolve")
	}
}

func TestZoneNow_UsesClock(t *testing.T) {
	fixed := time.Date(2025, 10, 8, 14, 0, 0, 0, time.UTC)
	z := mustZone(t, FixedClock{T: fixed})

	now := z.Now()
	if !now.Equal(fixed) {
		t.Fatalf("expected fixed instant, got %s", now)
	}
	if now.Location().String() != DefaultZone {
		t.Fatalf("expected %s, got %s", DefaultZone, now.Location())
	}
}
