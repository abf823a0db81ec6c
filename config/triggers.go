package config

import (
	"fmt"

	"github.com/curbsignal/curbsignal/core/model"
)

// TriggerWindow fires when the civil hour and day name match.
type TriggerWindow struct {
	Hour int      `json:"hour"`
	Days []string `json:"days"`
}

// Matches reports whether the window covers the given civil day and hour.
func (w TriggerWindow) Matches(day model.Weekday, hour int) bool {
	if hour != w.Hour {
		return false
	}
	for _, n := range w.Days {
		if string(day) == n {
			return true
		}
	}
	return false
}

// TriggersConfig sets when each notification is evaluated. Hours and days
// are civil time; the exact values are an operational preference, not a
// core invariant.
type TriggersConfig struct {
	WeeklySummary  TriggerWindow `json:"weekly_summary"`
	MoveReminder   TriggerWindow `json:"move_reminder"`
	EmergencyCheck TriggerWindow `json:"emergency_check"`
}

// SetDefaults applies the standard windows: summary Sunday 05, reminder
// Mon-Thu 10, emergency check Mon-Fri 05. The emergency check skips Sunday
// to avoid colliding with the weekly summary.
func (c *TriggersConfig) SetDefaults() {
	if len(c.WeeklySummary.Days) == 0 {
		c.WeeklySummary = TriggerWindow{Hour: 5, Days: []string{"Sun"}}
	}
	if len(c.MoveReminder.Days) == 0 {
		c.MoveReminder = TriggerWindow{Hour: 10, Days: []string{"Mon", "Tue", "Wed", "Thu"}}
	}
	if len(c.EmergencyCheck.Days) == 0 {
		c.EmergencyCheck = TriggerWindow{Hour: 5, Days: []string{"Mon", "Tue", "Wed", "Thu", "Fri"}}
	}
}

// Validate checks hour ranges and day names.
func (c TriggersConfig) Validate() error {
	for name, w := range map[string]TriggerWindow{
		"triggers.weekly_summary":  c.WeeklySummary,
		"triggers.move_reminder":   c.MoveReminder,
		"triggers.emergency_check": c.EmergencyCheck,
	} {
		if w.Hour < 0 || w.Hour > 23 {
			return fmt.Errorf("%s.hour out of range: %d", name, w.Hour)
		}
		if _, err := parseDays(name+".days", w.Days); err != nil {
			return err
		}
	}
	return nil
}
