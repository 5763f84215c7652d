package notifier

import (
	"context"

	"github.com/quotekit/quotekit/internal/logger"
)

// EventType identifies what happened to an approval request
type EventType string

const (
	EventApprovalRequested EventType = "approval.requested"
	EventApprovalReviewed  EventType = "approval.reviewed"
	EventApprovalEscalated EventType = "approval.escalated"
	EventApprovalExpired   EventType = "approval.expired"
)

// Event is the payload handed to the notification dispatcher
type Event struct {
	Type     EventType      `json:"type"`
	TenantID string         `json:"tenant_id"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Notifier dispatches approval lifecycle events. It is fire-and-forget:
// callers log a returned error and move on, a notification failure must
// never fail the calculation or the review action.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier is the default Notifier; it only records the event. Real
// dispatch (email, webhooks) lives outside this engine.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logger *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event Event) error {
	n.logger.Infow("notification dispatched",
		"event_type", event.Type,
		"tenant_id", event.TenantID,
		"payload", event.Payload)
	return nil
}
