package config

import (
	"fmt"

	"github.com/curbsignal/curbsignal/core/model"
)

// ScheduleConfig describes the street's cleaning regime and how the two
// sides are displayed.
type ScheduleConfig struct {
	// NearSideDays and FarSideDays are civil day names (Mon..Sun) on which
	// the respective side is cleaned. They should not overlap.
	NearSideDays []string `json:"near_side_days"`
	FarSideDays  []string `json:"far_side_days"`
	// CleaningStart and CleaningEnd bound the cleaning window, HH:MM.
	// Display only; the rotation itself is day-granular.
	CleaningStart string `json:"cleaning_start"`
	CleaningEnd   string `json:"cleaning_end"`
	// NearSideLabel and FarSideLabel are the display emoji for each side.
	NearSideLabel string `json:"near_side_label"`
	FarSideLabel  string `json:"far_side_label"`
}

// SetDefaults applies the standard Mon/Thu near, Tue/Fri far regime.
func (c *ScheduleConfig) SetDefaults() {
	if len(c.NearSideDays) == 0 {
		c.NearSideDays = []string{"Mon", "Thu"}
	}
	if len(c.FarSideDays) == 0 {
		c.FarSideDays = []string{"Tue", "Fri"}
	}
	if c.CleaningStart == "" {
		c.CleaningStart = "09:00"
	}
	if c.CleaningEnd == "" {
		c.CleaningEnd = "10:30"
	}
	if c.NearSideLabel == "" {
		c.NearSideLabel = "🏡"
	}
	if c.FarSideLabel == "" {
		c.FarSideLabel = "🌳"
	}
}

// Validate checks day names and overlap.
func (c ScheduleConfig) Validate() error {
	near, err := parseDays("schedule.near_side_days", c.NearSideDays)
	if err != nil {
		return err
	}
	far, err := parseDays("schedule.far_side_days", c.FarSideDays)
	if err != nil {
		return err
	}
	for d := range near {
		if far.Contains(d) {
			return fmt.Errorf("schedule: %s appears on both sides", d)
		}
	}
	return nil
}

// DaySets returns the parsed near and far cleaning day sets. Validate must
// have passed.
func (c ScheduleConfig) DaySets() (near, far model.DaySet) {
	near, _ = parseDays("", c.NearSideDays)
	far, _ = parseDays("", c.FarSideDays)
	return near, far
}

func parseDays(field string, names []string) (model.DaySet, error) {
	set := make(model.DaySet, len(names))
	for _, n := range names {
		d, ok := model.ParseWeekday(n)
		if !ok {
			return nil, fmt.Errorf("%s: unknown day name %q", field, n)
		}
		set[d] = struct{}{}
	}
	return set, nil
}
