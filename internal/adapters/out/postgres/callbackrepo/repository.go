package callbackrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/callback"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCallbackRepository implements CallbackRepository using GORM.
type GormCallbackRepository struct {
	db *gorm.DB
}

func NewGormCallbackRepository(db *gorm.DB) *GormCallbackRepository {
	return &GormCallbackRepository{db: db}
}

func (r *GormCallbackRepository) Add(ctx context.Context, cb *callback.Callback) error {
	if err := cb.Validate(); err != nil {
		return err
	}

	dto := fromDomain(cb)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	existing, err := r.Get(ctx, cb.Token())
	if err != nil {
		return err
	}
	if existing.OrderID().IsEqual(cb.OrderID()) && existing.Stage() == cb.Stage() {
		return nil
	}
	return errs.NewVersionIsInvalidError("callback token already registered")
}

func (r *GormCallbackRepository) Get(ctx context.Context, token kernel.Token) (*callback.Callback, error) {
	var dto CallbackDTO
	if err := r.db.WithContext(ctx).First(&dto, "token = ?", token.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("token", token.Redacted())
		}
		return nil, err
	}
	return toDomain(dto)
}

// Consume stores the resolution only while the row is PENDING and not yet past its deadline.
func (r *GormCallbackRepository) Consume(ctx context.Context, cb *callback.Callback) error {
	if _, ok := cb.Resolution(); !ok || cb.State() != callback.Consumed {
		return errs.NewInvalidStateError("callback", cb.State().String(), callback.Consumed.String())
	}

	dto := fromDomain(cb)
	result := r.db.WithContext(ctx).
		Model(&CallbackDTO{}).
		Where("token = ? AND state = ? AND expires_at > ?", dto.Token, callback.Pending.String(), cb.ConsumedAt()).
		Updates(map[string]any{
			"state":       dto.State,
			"consumed_at": dto.ConsumedAt,
			"decision":    dto.Decision,
			"actor_role":  dto.ActorRole,
			"actor_id":    dto.ActorID,
			"notes":       dto.Notes,
			"next_token":  dto.NextToken,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewTokenNotFoundError("callback already consumed or expired")
	}
	return nil
}

func (r *GormCallbackRepository) MarkSettled(ctx context.Context, cb *callback.Callback) error {
	result := r.db.WithContext(ctx).
		Model(&CallbackDTO{}).
		Where("token = ? AND state = ?", cb.Token().String(), callback.Consumed.String()).
		Updates(map[string]any{
			"state":      callback.Settled.String(),
			"settled_at": cb.SettledAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	stored, err := r.Get(ctx, cb.Token())
	if err != nil {
		return err
	}
	if stored.State() == callback.Settled {
		return nil
	}
	return errs.NewInvalidStateError("callback", stored.State().String(), callback.Consumed.String())
}

func (r *GormCallbackRepository) Invalidate(ctx context.Context, cb *callback.Callback) error {
	result := r.db.WithContext(ctx).
		Model(&CallbackDTO{}).
		Where("token = ? AND state = ?", cb.Token().String(), callback.Pending.String()).
		Update("state", callback.Invalidated.String())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewTokenNotFoundError("callback no longer pending")
	}
	return nil
}

func (r *GormCallbackRepository) ListConsumedBefore(ctx context.Context, t time.Time, limit int) ([]*callback.Callback, error) {
	query := r.db.WithContext(ctx).
		Where("state = ? AND consumed_at < ?", callback.Consumed.String(), t).
		Order("consumed_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []CallbackDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	callbacks := make([]*callback.Callback, 0, len(dtos))
	for _, dto := range dtos {
		cb, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		callbacks = append(callbacks, cb)
	}
	return callbacks, nil
}

func (r *GormCallbackRepository) ExpirePendingBefore(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&CallbackDTO{}).
		Where("state = ? AND expires_at <= ?", callback.Pending.String(), now).
		Update("state", callback.Expired.String())
	return result.RowsAffected, result.Error
}
