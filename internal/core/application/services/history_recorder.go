package services

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/pagination"
)

const maxAppendAttempts = 5

// HistoryRecorder appends audit entries. Appends are keyed by a dedupe key so a replayed
// transition never produces a second entry.
type HistoryRecorder struct {
	history ports.HistoryRepository
	logger  *slog.Logger
}

func NewHistoryRecorder(ledger ports.Ledger, logger *slog.Logger) (*HistoryRecorder, error) {
	if ledger == nil {
		return nil, errs.NewValueIsRequiredError("ledger")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	return &HistoryRecorder{
		history: ledger.History(),
		logger:  logger.With("component", "history-recorder"),
	}, nil
}

// Record builds and appends an entry for orderID reaching stage.
func (r *HistoryRecorder) Record(
	ctx context.Context,
	restaurantID kernel.RestaurantID,
	orderID kernel.UUID,
	stage order.Status,
	by actor.Actor,
	notes string,
	dedupeKey string,
	now time.Time,
) (history.Entry, error) {
	entry, err := history.NewEntry(restaurantID, orderID, stage, by, notes, dedupeKey, now)
	if err != nil {
		return history.Entry{}, err
	}
	return r.Append(ctx, entry)
}

// Append stores entry, retrying when another writer took the next sequence id first.
func (r *HistoryRecorder) Append(ctx context.Context, entry history.Entry) (history.Entry, error) {
	if err := entry.Validate(); err != nil {
		return history.Entry{}, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		stored, err := r.history.Append(ctx, entry)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, errs.ErrVersionIsInvalid) {
			return history.Entry{}, err
		}
		lastErr = err
		r.logger.DebugContext(ctx, "history sequence conflict, retrying",
			"order_id", entry.OrderID().String(), "attempt", attempt)
	}
	return history.Entry{}, lastErr
}

// List returns one page of entries after afterSequence and the sequence to continue from, which
// is zero on the last page.
func (r *HistoryRecorder) List(
	ctx context.Context,
	restaurantID kernel.RestaurantID,
	orderID kernel.UUID,
	afterSequence int64,
	limit int,
) ([]history.Entry, int64, error) {
	limit = pagination.ClampLimit(limit)
	entries, err := r.history.List(ctx, restaurantID, orderID, afterSequence, limit)
	if err != nil {
		return nil, 0, err
	}
	var next int64
	if len(entries) == limit {
		next = entries[len(entries)-1].SequenceID()
	}
	return entries, next, nil
}

// Iterate walks the whole history of an order lazily, one page at a time.
func (r *HistoryRecorder) Iterate(ctx context.Context, restaurantID kernel.RestaurantID, orderID kernel.UUID, pageSize int) iter.Seq2[history.Entry, error] {
	return func(yield func(history.Entry, error) bool) {
		var after int64
		for {
			page, next, err := r.List(ctx, restaurantID, orderID, after, pageSize)
			if err != nil {
				yield(history.Entry{}, err)
				return
			}
			for _, e := range page {
				if !yield(e, nil) {
					return
				}
			}
			if next == 0 {
				return
			}
			after = next
		}
	}
}
