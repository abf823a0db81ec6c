package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	ics "github.com/arran4/golang-ical"
)

// ErrParse marks malformed calendar data. It is distinct from a calendar
// that simply contains no suspensions.
var ErrParse = errors.New("malformed suspension calendar")

// suspensionKeywords mark a calendar event as a parking-enforcement
// suspension. Matching is case-insensitive on the event summary.
var suspensionKeywords = []string{
	"asp suspended",
	"alternate side parking suspended",
	"no asp",
	"suspended",
}

// Parse extracts the distinct suspension dates (YYYY-MM-DD) from ICS text,
// sorted ascending.
func (c *Client) Parse(text string) ([]string, error) {
	cal, err := ics.ParseCalendar(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	seen := make(map[string]struct{})
	for _, ev := range cal.Events() {
		summary := ""
		if p := ev.GetProperty(ics.ComponentPropertySummary); p != nil {
			summary = strings.ToLower(p.Value)
		}
		if !isSuspensionSummary(summary) {
			continue
		}
		start, err := ev.GetAllDayStartAt()
		if err != nil {
			start, err = ev.GetStartAt()
			if err != nil {
				return nil, fmt.Errorf("%w: event %q has no start date", ErrParse, summary)
			}
		}
		seen[start.Format("2006-01-02")] = struct{}{}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

func isSuspensionSummary(summary string) bool {
	for _, kw := range suspensionKeywords {
		if strings.Contains(summary, kw) {
			return true
		}
	}
	return false
}
