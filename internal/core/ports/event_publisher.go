package ports

import (
	"context"
	"time"
)

// StatusChangedEvent is emitted after an order reaches a new status.
type StatusChangedEvent struct {
	RestaurantID   string    `json:"restaurant_id"`
	OrderID        string    `json:"order_id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
	ActorRole      string    `json:"actor_role"`
	ActorID        string    `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher delivers order events. Delivery is best effort: callers log failures and
// continue.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event StatusChangedEvent) error
}
