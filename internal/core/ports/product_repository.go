package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/product"
)

type ProductRepository interface {
	Add(ctx context.Context, p *product.Product) error

	Get(ctx context.Context, restaurantID kernel.RestaurantID, id kernel.UUID) (*product.Product, error)

	// List skips retired products.
	List(ctx context.Context, restaurantID kernel.RestaurantID, cursor string, limit int) ([]*product.Product, string, error)

	// SaveDetails writes name, unit price and retirement. It never touches stock.
	SaveDetails(ctx context.Context, p *product.Product) error

	// DecrementStock subtracts quantity only while stock >= quantity. applied is false when the
	// guard fails; an unknown product is ObjectNotFoundError.
	DecrementStock(ctx context.Context, restaurantID kernel.RestaurantID, id kernel.UUID, quantity int) (applied bool, err error)

	IncrementStock(ctx context.Context, restaurantID kernel.RestaurantID, id kernel.UUID, quantity int) error
}
