package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"orderflow/internal/core/ports"
)

var _ ports.EventPublisher = (*EventLog)(nil)

// EventLog keeps published events in memory and logs them. It stands in for the broker when
// none is configured.
type EventLog struct {
	mu     sync.Mutex
	events []ports.StatusChangedEvent
	logger *slog.Logger
}

func NewEventLog(logger *slog.Logger) *EventLog {
	return &EventLog{logger: logger.With("component", "event-log")}
}

func (l *EventLog) PublishStatusChanged(ctx context.Context, event ports.StatusChangedEvent) error {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()

	l.logger.DebugContext(ctx, "order status changed",
		"order_id", event.OrderID, "from", event.PreviousStatus, "to", event.Status)
	return nil
}

// Events returns a copy of everything published so far.
func (l *EventLog) Events() []ports.StatusChangedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}
