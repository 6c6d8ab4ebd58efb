// Package callbackrepo is the durable token index. Every state change is one UPDATE guarded by
// the state it leaves, so exactly one caller wins each transition.
package callbackrepo

import (
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/callback"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

type CallbackDTO struct {
	Token        string     `gorm:"type:varchar(64);primaryKey"`
	RestaurantID string     `gorm:"type:varchar(64);not null;index:idx_callbacks_order,priority:1"`
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_callbacks_order,priority:2"`
	Stage        int        `gorm:"not null"`
	State        string     `gorm:"type:varchar(16);not null;index:idx_callbacks_state,priority:1"`
	IssuedAt     time.Time  `gorm:"not null"`
	ExpiresAt    time.Time  `gorm:"not null"`
	ConsumedAt   *time.Time `gorm:"index:idx_callbacks_state,priority:2"`
	SettledAt    *time.Time

	// resolution, set on consume
	Decision  int
	ActorRole string `gorm:"type:varchar(32)"`
	ActorID   string `gorm:"type:varchar(128)"`
	Notes     string `gorm:"type:varchar(500)"`
	NextToken string `gorm:"type:varchar(64)"`
}

func (CallbackDTO) TableName() string {
	return "callbacks"
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}

func fromDomain(cb *callback.Callback) CallbackDTO {
	dto := CallbackDTO{
		Token:        cb.Token().String(),
		RestaurantID: cb.RestaurantID().String(),
		OrderID:      cb.OrderID().Bytes(),
		Stage:        int(cb.Stage()),
		State:        cb.State().String(),
		IssuedAt:     cb.IssuedAt(),
		ExpiresAt:    cb.ExpiresAt(),
		ConsumedAt:   optionalTime(cb.ConsumedAt()),
		SettledAt:    optionalTime(cb.SettledAt()),
	}
	if res, ok := cb.Resolution(); ok {
		dto.Decision = int(res.Decision())
		dto.ActorRole = res.Actor().Role().String()
		dto.ActorID = res.Actor().ID()
		dto.Notes = res.Notes()
		dto.NextToken = res.NextToken().String()
	}
	return dto
}

func toDomain(dto CallbackDTO) (*callback.Callback, error) {
	token, err := kernel.TokenFromString(dto.Token)
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.NewRestaurantID(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	state, err := callback.ParseState(dto.State)
	if err != nil {
		return nil, err
	}

	var res *callback.Resolution
	if dto.ActorID != "" {
		r, err := resolutionFromDTO(dto)
		if err != nil {
			return nil, err
		}
		res = &r
	}

	return callback.RestoreCallback(token, restaurantID, orderID, order.Stage(dto.Stage), state,
		dto.IssuedAt.UTC(), dto.ExpiresAt.UTC(), timeOrZero(dto.ConsumedAt), timeOrZero(dto.SettledAt), res)
}

func resolutionFromDTO(dto CallbackDTO) (callback.Resolution, error) {
	role, err := actor.ParseRole(dto.ActorRole)
	if err != nil {
		return callback.Resolution{}, err
	}
	by, err := actor.NewActor(dto.ActorID, role)
	if err != nil {
		return callback.Resolution{}, err
	}
	next, err := kernel.OptionalTokenFromString(dto.NextToken)
	if err != nil {
		return callback.Resolution{}, err
	}
	return callback.NewResolution(order.Decision(dto.Decision), by, dto.Notes, next)
}
