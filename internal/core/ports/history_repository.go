package ports

import (
	"context"

	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
)

type HistoryRepository interface {
	// Append stores entry with the next sequence id of its order. If an entry with the same
	// dedupe key exists for the order, the stored entry is returned and nothing is written.
	// Losing a sequence race is reported as VersionIsInvalidError and may be retried.
	Append(ctx context.Context, entry history.Entry) (history.Entry, error)

	// List returns up to limit entries with sequence id greater than afterSequence, ascending.
	List(ctx context.Context, restaurantID kernel.RestaurantID, orderID kernel.UUID, afterSequence int64, limit int) ([]history.Entry, error)
}
