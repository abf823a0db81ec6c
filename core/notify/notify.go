// Package notify defines the outbound notification contract. The payload is
// opaque to the core: the chat adapter decides its wire shape.
package notify

import (
	"context"

	"github.com/curbsignal/curbsignal/core/model"
)

// Kind classifies a notification for logging and metrics.
type Kind string

const (
	KindWeeklySummary  Kind = "weekly_summary"
	KindMoveReminder   Kind = "move_reminder"
	KindEmergencyAlert Kind = "emergency_alert"
	KindError          Kind = "error"
)

// Message is one outbound notification.
type Message struct {
	Kind    Kind
	Payload any
}

// Notifier delivers messages to the user's chat. Implementations retry
// transient failures and return an error only once retries are exhausted.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Composer renders domain results into Messages.
type Composer interface {
	WeeklySummary(w model.WeekView) Message
	MoveReminder(d model.MoveDecision) Message
	EmergencyAlert(reason string) Message
	Error(errMsg string) Message
}
