package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrDeleteProductCommandIsNotConstructed = errors.New(
	"DeleteProductCommand must be created via NewDeleteProductCommand constructor",
)

// DeleteProductCommand takes a product off the catalog.
type DeleteProductCommand struct {
	restaurantID kernel.RestaurantID
	productID    kernel.UUID
	by           actor.Actor

	guard guard.ConstructorGuard
}

func NewDeleteProductCommand(restaurantID kernel.RestaurantID, productID kernel.UUID, by actor.Actor) (DeleteProductCommand, error) {
	if err := errors.Join(restaurantID.Validate(), productID.Validate(), by.Validate()); err != nil {
		return DeleteProductCommand{}, err
	}
	return DeleteProductCommand{
		restaurantID: restaurantID,
		productID:    productID,
		by:           by,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c DeleteProductCommand) Validate() error {
	return c.guard.Validate(ErrDeleteProductCommandIsNotConstructed)
}

func (c DeleteProductCommand) RestaurantID() kernel.RestaurantID { return c.restaurantID }
func (c DeleteProductCommand) ProductID() kernel.UUID            { return c.productID }
func (c DeleteProductCommand) Actor() actor.Actor                { return c.by }
