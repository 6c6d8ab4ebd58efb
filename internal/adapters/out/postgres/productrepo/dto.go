// Package productrepo persists the product catalog and its stock counters.
package productrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/product"

	"github.com/google/uuid"
)

// ProductDTO is the products row. Stock is only ever changed by guarded increments and
// decrements, never by rewriting the row.
type ProductDTO struct {
	RestaurantID string     `gorm:"type:varchar(64);primaryKey"`
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name         string     `gorm:"type:varchar(255);not null"`
	UnitPrice    int64      `gorm:"not null"`
	Stock        int        `gorm:"not null;check:stock >= 0"`
	CreatedAt    time.Time  `gorm:"index;autoCreateTime:false"`
	RetiredAt    *time.Time `gorm:"index"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		RestaurantID: p.RestaurantID().String(),
		ID:           p.ID().Bytes(),
		Name:         p.Name(),
		UnitPrice:    p.UnitPrice(),
		Stock:        p.Stock(),
		CreatedAt:    p.CreatedAt(),
		RetiredAt:    retiredAt(p),
	}
}

func retiredAt(p *product.Product) *time.Time {
	if !p.IsRetired() {
		return nil
	}
	at := p.RetiredAt()
	return &at
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	restaurantID, err := kernel.NewRestaurantID(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	var retired time.Time
	if dto.RetiredAt != nil {
		retired = *dto.RetiredAt
	}
	return product.RestoreProduct(restaurantID, id, dto.Name, dto.UnitPrice, dto.Stock, dto.CreatedAt.UTC(), retired)
}
