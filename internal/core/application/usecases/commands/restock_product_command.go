package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrRestockProductCommandIsNotConstructed = errors.New(
	"RestockProductCommand must be created via NewRestockProductCommand constructor",
)

// RestockProductCommand adds units to a product's stock.
type RestockProductCommand struct {
	restaurantID kernel.RestaurantID
	productID    kernel.UUID
	by           actor.Actor
	quantity     int

	guard guard.ConstructorGuard
}

func NewRestockProductCommand(restaurantID kernel.RestaurantID, productID kernel.UUID, by actor.Actor, quantity int) (RestockProductCommand, error) {
	var quantityErr error
	if quantity <= 0 {
		quantityErr = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	if err := errors.Join(restaurantID.Validate(), productID.Validate(), by.Validate(), quantityErr); err != nil {
		return RestockProductCommand{}, err
	}
	return RestockProductCommand{
		restaurantID: restaurantID,
		productID:    productID,
		by:           by,
		quantity:     quantity,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c RestockProductCommand) Validate() error {
	return c.guard.Validate(ErrRestockProductCommandIsNotConstructed)
}

func (c RestockProductCommand) RestaurantID() kernel.RestaurantID { return c.restaurantID }
func (c RestockProductCommand) ProductID() kernel.UUID            { return c.productID }
func (c RestockProductCommand) Actor() actor.Actor                { return c.by }
func (c RestockProductCommand) Quantity() int                     { return c.quantity }
