package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrCreateProductCommandIsNotConstructed = errors.New(
	"CreateProductCommand must be created via NewCreateProductCommand constructor",
)

// CreateProductCommand adds a product to a restaurant's catalog. Name, price and stock are
// checked by the product itself when the handler builds it.
type CreateProductCommand struct {
	restaurantID kernel.RestaurantID
	productID    kernel.UUID
	by           actor.Actor
	name         string
	unitPrice    int64
	stock        int

	guard guard.ConstructorGuard
}

func NewCreateProductCommand(
	restaurantID kernel.RestaurantID,
	productID kernel.UUID,
	by actor.Actor,
	name string,
	unitPrice int64,
	stock int,
) (CreateProductCommand, error) {
	if err := errors.Join(restaurantID.Validate(), productID.Validate(), by.Validate()); err != nil {
		return CreateProductCommand{}, err
	}
	return CreateProductCommand{
		restaurantID: restaurantID,
		productID:    productID,
		by:           by,
		name:         name,
		unitPrice:    unitPrice,
		stock:        stock,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CreateProductCommand) Validate() error {
	return c.guard.Validate(ErrCreateProductCommandIsNotConstructed)
}

func (c CreateProductCommand) RestaurantID() kernel.RestaurantID { return c.restaurantID }
func (c CreateProductCommand) ProductID() kernel.UUID            { return c.productID }
func (c CreateProductCommand) Actor() actor.Actor                { return c.by }
func (c CreateProductCommand) Name() string                      { return c.name }
func (c CreateProductCommand) UnitPrice() int64                  { return c.unitPrice }
func (c CreateProductCommand) Stock() int                        { return c.stock }
