package productrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/pagination"

	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Add(ctx context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewVersionIsInvalidErrorWithCause("product already exists", err)
		}
		return err
	}
	return nil
}

func (r *GormProductRepository) Get(ctx context.Context, restaurantID kernel.RestaurantID, id kernel.UUID) (*product.Product, error) {
	if err := errors.Join(restaurantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto ProductDTO
	err := r.db.WithContext(ctx).
		First(&dto, "restaurant_id = ? AND id = ?", restaurantID.String(), id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("productID", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormProductRepository) List(ctx context.Context, restaurantID kernel.RestaurantID, cursor string, limit int) ([]*product.Product, string, error) {
	after, hasCursor, err := pagination.Decode(cursor)
	if err != nil {
		return nil, "", err
	}
	limit = pagination.ClampLimit(limit)

	query := r.db.WithContext(ctx).Where("restaurant_id = ? AND retired_at IS NULL", restaurantID.String())
	if hasCursor {
		query = query.Where("(created_at, id) < (?, ?::uuid)", after.At, after.ID)
	}

	var dtos []ProductDTO
	if err := query.Order("created_at DESC, id DESC").Limit(limit + 1).Find(&dtos).Error; err != nil {
		return nil, "", err
	}

	var next string
	if len(dtos) > limit {
		dtos = dtos[:limit]
		last := dtos[limit-1]
		next = pagination.Cursor{At: last.CreatedAt, ID: last.ID.String()}.Encode()
	}

	products := make([]*product.Product, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, "", err
		}
		products = append(products, p)
	}
	return products, next, nil
}

// SaveDetails updates the descriptive columns only, so it cannot undo a concurrent stock change.
func (r *GormProductRepository) SaveDetails(ctx context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("restaurant_id = ? AND id = ?", dto.RestaurantID, dto.ID).
		Select("name", "unit_price", "retired_at").
		Updates(map[string]any{
			"name":       dto.Name,
			"unit_price": dto.UnitPrice,
			"retired_at": dto.RetiredAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("productID", p.ID().String())
	}
	return nil
}

// DecrementStock is a single guarded UPDATE; two concurrent callers can never both take the
// last units.
func (r *GormProductRepository) DecrementStock(ctx context.Context, restaurantID kernel.RestaurantID, id kernel.UUID, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}

	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("restaurant_id = ? AND id = ? AND stock >= ?", restaurantID.String(), id.Bytes(), quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	if _, err := r.Get(ctx, restaurantID, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *GormProductRepository) IncrementStock(ctx context.Context, restaurantID kernel.RestaurantID, id kernel.UUID, quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}

	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("restaurant_id = ? AND id = ?", restaurantID.String(), id.Bytes()).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("productID", id.String())
	}
	return nil
}
