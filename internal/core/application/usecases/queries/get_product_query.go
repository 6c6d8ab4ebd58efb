package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetProductQueryIsNotConstructed = errors.New(
	"GetProductQuery must be created via NewGetProductQuery constructor",
)

type GetProductQuery struct {
	restaurantID kernel.RestaurantID
	productID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetProductQuery(restaurantID kernel.RestaurantID, productID kernel.UUID) (GetProductQuery, error) {
	if err := errors.Join(restaurantID.Validate(), productID.Validate()); err != nil {
		return GetProductQuery{}, err
	}
	return GetProductQuery{
		restaurantID: restaurantID,
		productID:    productID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q GetProductQuery) Validate() error {
	return q.guard.Validate(ErrGetProductQueryIsNotConstructed)
}
