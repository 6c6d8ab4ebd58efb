// Package ports defines the contracts between the order workflow core and its collaborators:
// the ledger store, the orchestrator, the authorizer and the event publisher.
//
// The ledger offers no multi-record transactions. Every mutation is a single-record conditional
// write, and multi-step operations in the core are built to be safely retryable.
package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderFilter narrows order listings. Zero fields do not filter.
type OrderFilter struct {
	RestaurantID kernel.RestaurantID
	Statuses     []order.Status
	CustomerRef  string
}

// OrderRepository persists order aggregates keyed by (restaurant, order).
type OrderRepository interface {
	// Add inserts a new order. A duplicate key is reported as VersionIsInvalidError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order only if the stored version equals aggregate.Version(), then
	// advances the aggregate's version. A lost race is reported as VersionIsInvalidError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns ObjectNotFoundError for unknown keys.
	Get(ctx context.Context, restaurantID kernel.RestaurantID, id kernel.UUID) (*order.Order, error)

	// List returns up to limit orders, newest first, after cursor. The returned cursor is empty
	// on the last page.
	List(ctx context.Context, filter OrderFilter, cursor string, limit int) ([]*order.Order, string, error)
}
