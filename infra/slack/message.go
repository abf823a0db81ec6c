// Package slack renders decision results into Block Kit payloads and
// delivers them over an incoming webhook.
package slack

import (
	"fmt"
	"strings"

	"github.com/curbsignal/curbsignal/core/civiltime"
	"github.com/curbsignal/curbsignal/core/model"
	"github.com/curbsignal/curbsignal/core/notify"
)

// Block Kit wire types, the subset this service emits.
type payload struct {
	Blocks []block `json:"blocks"`
}

type block struct {
	Type     string      `json:"type"`
	Text     *textObject `json:"text,omitempty"`
	Elements []textObject `json:"elements,omitempty"`
}

type textObject struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

func header(text string) block {
	return block{Type: "header", Text: &textObject{Type: "plain_text", Text: text, Emoji: true}}
}

func section(text string) block {
	return block{Type: "section", Text: &textObject{Type: "mrkdwn", Text: text}}
}

func contextBlock(text string) block {
	return block{Type: "context", Elements: []textObject{{Type: "mrkdwn", Text: text}}}
}

// Composer builds the four notification payloads. Labels are the two
// configured side emoji.
type Composer struct {
	zone      *civiltime.Zone
	nearLabel string
	farLabel  string
}

// NewComposer creates a Composer with the configured side labels.
func NewComposer(zone *civiltime.Zone, nearLabel, farLabel string) *Composer {
	return &Composer{zone: zone, nearLabel: nearLabel, farLabel: farLabel}
}

func (c *Composer) sideLabel(s model.Side) string {
	if s == model.SideNear {
		return c.nearLabel
	}
	return c.farLabel
}

// WeeklySummary renders the week strategy: an emoji calendar row aligned
// under the day headers, a strategy line, and a per-day breakdown.
func (c *Composer) WeeklySummary(w model.WeekView) notify.Message {
	start := w.StartDate.In(c.zone.Location()).Format("Jan 2")
	end := w.EndDate.In(c.zone.Location()).Format("Jan 2")

	icons := make([]string, len(w.Days))
	for i, d := range w.Days {
		icons[i] = c.sideLabel(d.ParkOnSide)
	}
	// Emoji render roughly two characters wide; seven spaces between icons
	// lines them up under the 7-wide day headers.
	calendarRow := "  " + strings.Join(icons, "       ")
	dayHeaders := "Mon    Tue    Wed    Thu    Fri"

	blocks := []block{
		header(fmt.Sprintf("🚗 Parking Strategy for %s - %s", start, end)),
		section(fmt.Sprintf("`%s`\n%s", dayHeaders, calendarRow)),
		section(c.strategyText(w)),
		{Type: "divider"},
	}
	blocks = append(blocks, c.dayBreakdown(w)...)

	return notify.Message{Kind: notify.KindWeeklySummary, Payload: payload{Blocks: blocks}}
}

func (c *Composer) strategyText(w model.WeekView) string {
	var suspended []string
	cleaningDays := 0
	for _, d := range w.Days {
		if d.IsSuspended {
			suspended = append(suspended, string(d.DayOfWeek))
		} else if d.HasCleaning() {
			cleaningDays++
		}
	}

	if len(suspended) == 0 {
		return fmt.Sprintf("*Normal week* - Standard shuffle pattern. Start on %s far side Sunday night.", c.farLabel)
	}
	names := strings.Join(suspended, ", ")
	if cleaningDays <= 2 {
		return fmt.Sprintf("*Easy week!* Cleaning suspended on %s. Only %d cleaning days this week.", names, cleaningDays)
	}
	return fmt.Sprintf("Cleaning suspended on %s. Adjust your shuffle pattern accordingly.", names)
}

func (c *Composer) dayBreakdown(w model.WeekView) []block {
	blocks := make([]block, 0, len(w.Days))
	for _, d := range w.Days {
		var desc string
		switch {
		case d.IsSuspended && d.SuspensionReason != "":
			desc = d.SuspensionReason
		case d.IsSuspended:
			desc = "cleaning suspended"
		case d.HasNearSideCleaning:
			desc = "near side has cleaning"
		case d.HasFarSideCleaning:
			desc = "far side has cleaning"
		default:
			desc = "no cleaning today"
		}
		blocks = append(blocks, section(fmt.Sprintf("%s *%s*: Park on %s side - _%s_",
			c.sideLabel(d.ParkOnSide), d.DayOfWeek, d.ParkOnSide, desc)))
	}
	return blocks
}

// MoveReminder renders the "move now" alert.
func (c *Composer) MoveReminder(d model.MoveDecision) notify.Message {
	nextMove := "next week"
	if !d.NextMoveDate.IsZero() {
		nextMove = string(c.zone.DayOfWeek(d.NextMoveDate))
	}
	blocks := []block{
		header("🚗 Move Your Car Now!"),
		section(fmt.Sprintf("From %s *%s side* → %s *%s side*",
			c.sideLabel(d.CurrentSide), d.CurrentSide, c.sideLabel(d.TargetSide), d.TargetSide)),
		contextBlock(fmt.Sprintf("Next move: *%s*", nextMove)),
	}
	return notify.Message{Kind: notify.KindMoveReminder, Payload: payload{Blocks: blocks}}
}

// EmergencyAlert renders the out-of-band suspension alert.
func (c *Composer) EmergencyAlert(reason string) notify.Message {
	text := "Street cleaning suspended today."
	if reason != "" {
		text = fmt.Sprintf("Street cleaning suspended today due to *%s*.", reason)
	}
	blocks := []block{
		header("⚠️ Emergency Suspension"),
		section(text),
		contextBlock("No need to move the car for today's cleaning."),
	}
	return notify.Message{Kind: notify.KindEmergencyAlert, Payload: payload{Blocks: blocks}}
}

// Error renders the best-effort failure notification.
func (c *Composer) Error(errMsg string) notify.Message {
	blocks := []block{
		header("🚨 Parking Bot Error"),
		section(fmt.Sprintf("The parking advisor failed:\n```%s```", errMsg)),
	}
	return notify.Message{Kind: notify.KindError, Payload: payload{Blocks: blocks}}
}
