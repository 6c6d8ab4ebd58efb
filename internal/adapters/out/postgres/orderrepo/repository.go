package orderrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/pagination"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewVersionIsInvalidErrorWithCause("order already exists", err)
		}
		return err
	}
	return nil
}

// Update writes every column of the order, conditioned on the version it was read at.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("restaurant_id = ? AND id = ? AND version = ?", dto.RestaurantID, dto.ID, aggregate.Version()).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missedUpdate(ctx, aggregate)
	}

	aggregate.AdvanceVersion()
	return nil
}

// missedUpdate tells a stale version apart from a missing row.
func (r *GormOrderRepository) missedUpdate(ctx context.Context, aggregate *order.Order) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("restaurant_id = ? AND id = ?", aggregate.RestaurantID().String(), aggregate.ID().Bytes()).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("orderID", aggregate.ID().String())
	}
	return errs.NewVersionIsInvalidError("order")
}

// Get retrieves an order by its key.
func (r *GormOrderRepository) Get(ctx context.Context, restaurantID kernel.RestaurantID, id kernel.UUID) (*order.Order, error) {
	if err := errors.Join(restaurantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		First(&dto, "restaurant_id = ? AND id = ?", restaurantID.String(), id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderID", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List pages through orders newest first using a (created_at, id) keyset.
func (r *GormOrderRepository) List(ctx context.Context, filter ports.OrderFilter, cursor string, limit int) ([]*order.Order, string, error) {
	after, hasCursor, err := pagination.Decode(cursor)
	if err != nil {
		return nil, "", err
	}
	limit = pagination.ClampLimit(limit)

	query := r.db.WithContext(ctx).Model(&OrderDTO{})
	if filter.RestaurantID.Validate() == nil {
		query = query.Where("restaurant_id = ?", filter.RestaurantID.String())
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]int, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, int(s))
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.CustomerRef != "" {
		query = query.Where("customer_ref = ?", filter.CustomerRef)
	}
	if hasCursor {
		query = query.Where("(created_at, id) < (?, ?::uuid)", after.At, after.ID)
	}

	var dtos []OrderDTO
	if err := query.Order("created_at DESC, id DESC").Limit(limit + 1).Find(&dtos).Error; err != nil {
		return nil, "", err
	}

	var next string
	if len(dtos) > limit {
		dtos = dtos[:limit]
		last := dtos[limit-1]
		next = pagination.Cursor{At: last.CreatedAt, ID: last.ID.String()}.Encode()
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, "", err
		}
		orders = append(orders, o)
	}

	return orders, next, nil
}
