package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/callback"
	"orderflow/internal/core/domain/model/kernel"
)

// CallbackRepository is the token index. State changes are applied to the domain object first
// and then persisted with a condition on the previous state.
type CallbackRepository interface {
	// Add inserts a PENDING callback. Re-adding the same token for the same order and stage is a
	// no-op; any other clash is VersionIsInvalidError.
	Add(ctx context.Context, cb *callback.Callback) error

	// Get returns ObjectNotFoundError for unknown tokens.
	Get(ctx context.Context, token kernel.Token) (*callback.Callback, error)

	// Consume persists a consumed callback only if the stored record is still PENDING and not
	// expired at cb.ConsumedAt(). Exactly one concurrent caller succeeds; the others get
	// TokenNotFoundError.
	Consume(ctx context.Context, cb *callback.Callback) error

	// MarkSettled moves CONSUMED to SETTLED. Already settled records are left alone.
	MarkSettled(ctx context.Context, cb *callback.Callback) error

	// Invalidate moves PENDING to INVALIDATED.
	Invalidate(ctx context.Context, cb *callback.Callback) error

	// ListConsumedBefore returns CONSUMED callbacks consumed before t, oldest first.
	ListConsumedBefore(ctx context.Context, t time.Time, limit int) ([]*callback.Callback, error)

	// ExpirePendingBefore marks PENDING callbacks whose deadline is at or before now as EXPIRED.
	ExpirePendingBefore(ctx context.Context, now time.Time) (int64, error)
}
