package historyrepo

import (
	"context"
	"database/sql"
	"errors"

	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// appendEntry numbers the new row max+1 within its order. Either conflict (sequence or dedupe
// key) makes the insert a no-op and returns no row.
const appendEntry = `
INSERT INTO history_entries
	(restaurant_id, order_id, sequence_id, stage_reached, actor_role, actor_id, notes, dedupe_key, recorded_at)
SELECT ?, ?, COALESCE(MAX(sequence_id), 0) + 1, ?, ?, ?, ?, ?, ?
FROM history_entries
WHERE restaurant_id = ? AND order_id = ?
ON CONFLICT DO NOTHING
RETURNING sequence_id`

// GormHistoryRepository implements HistoryRepository using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

func (r *GormHistoryRepository) Append(ctx context.Context, entry history.Entry) (history.Entry, error) {
	if err := entry.Validate(); err != nil {
		return history.Entry{}, err
	}

	if stored, ok, err := r.findByDedupeKey(ctx, entry); err != nil || ok {
		return stored, err
	}

	restaurantID := entry.RestaurantID().String()
	orderID := entry.OrderID().Bytes()

	var seq int64
	err := r.db.WithContext(ctx).Raw(appendEntry,
		restaurantID, orderID,
		int(entry.StageReached()), entry.Actor().Role().String(), entry.Actor().ID(),
		entry.Notes(), entry.DedupeKey(), entry.RecordedAt(),
		restaurantID, orderID,
	).Row().Scan(&seq)
	if err == nil {
		return entry.WithSequence(seq), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return history.Entry{}, err
	}

	// Nothing inserted: either the same entry landed concurrently or another entry took the
	// sequence id.
	stored, ok, err := r.findByDedupeKey(ctx, entry)
	if err != nil {
		return history.Entry{}, err
	}
	if ok {
		return stored, nil
	}
	return history.Entry{}, errs.NewVersionIsInvalidError("history sequence")
}

func (r *GormHistoryRepository) List(
	ctx context.Context,
	restaurantID kernel.RestaurantID,
	orderID kernel.UUID,
	afterSequence int64,
	limit int,
) ([]history.Entry, error) {
	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND order_id = ? AND sequence_id > ?", restaurantID.String(), orderID.Bytes(), afterSequence).
		Order("sequence_id ASC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]history.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *GormHistoryRepository) findByDedupeKey(ctx context.Context, entry history.Entry) (history.Entry, bool, error) {
	var dto EntryDTO
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND order_id = ? AND dedupe_key = ?",
			entry.RestaurantID().String(), entry.OrderID().Bytes(), entry.DedupeKey()).
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return history.Entry{}, false, nil
	}
	if err != nil {
		return history.Entry{}, false, err
	}
	stored, err := toDomain(dto)
	return stored, err == nil, err
}
