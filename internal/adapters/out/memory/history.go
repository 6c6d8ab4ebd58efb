package memory

import (
	"context"

	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
)

type historyRepository struct {
	l *Ledger
}

func (r *historyRepository) Append(_ context.Context, entry history.Entry) (history.Entry, error) {
	if err := entry.Validate(); err != nil {
		return history.Entry{}, err
	}

	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	key := orderKey(entry.RestaurantID(), entry.OrderID())
	entries := r.l.history[key]
	for _, e := range entries {
		if e.DedupeKey() == entry.DedupeKey() {
			return e, nil
		}
	}

	seq := int64(1)
	if n := len(entries); n > 0 {
		seq = entries[n-1].SequenceID() + 1
	}
	stored := entry.WithSequence(seq)
	r.l.history[key] = append(entries, stored)
	return stored, nil
}

func (r *historyRepository) List(_ context.Context, restaurantID kernel.RestaurantID, orderID kernel.UUID, afterSequence int64, limit int) ([]history.Entry, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	page := make([]history.Entry, 0, limit)
	for _, e := range r.l.history[orderKey(restaurantID, orderID)] {
		if e.SequenceID() <= afterSequence {
			continue
		}
		page = append(page, e)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}
