// Package historyrepo stores the per-order audit trail. Sequence ids are assigned by the insert
// itself and a unique dedupe key per order keeps appends idempotent.
package historyrepo

import (
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

type EntryDTO struct {
	RestaurantID string    `gorm:"type:varchar(64);primaryKey;uniqueIndex:idx_history_dedupe,priority:1"`
	OrderID      uuid.UUID `gorm:"type:uuid;primaryKey;uniqueIndex:idx_history_dedupe,priority:2"`
	SequenceID   int64     `gorm:"primaryKey;autoIncrement:false"`
	StageReached int       `gorm:"not null"`
	ActorRole    string    `gorm:"type:varchar(32);not null"`
	ActorID      string    `gorm:"type:varchar(128);not null"`
	Notes        string    `gorm:"type:varchar(500)"`
	DedupeKey    string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_history_dedupe,priority:3"`
	RecordedAt   time.Time `gorm:"not null"`
}

func (EntryDTO) TableName() string {
	return "history_entries"
}

func toDomain(dto EntryDTO) (history.Entry, error) {
	restaurantID, err := kernel.NewRestaurantID(dto.RestaurantID)
	if err != nil {
		return history.Entry{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return history.Entry{}, err
	}
	role, err := actor.ParseRole(dto.ActorRole)
	if err != nil {
		return history.Entry{}, err
	}
	by, err := actor.NewActor(dto.ActorID, role)
	if err != nil {
		return history.Entry{}, err
	}
	return history.RestoreEntry(restaurantID, orderID, dto.SequenceID, order.Status(dto.StageReached),
		by, dto.Notes, dto.DedupeKey, dto.RecordedAt.UTC())
}
