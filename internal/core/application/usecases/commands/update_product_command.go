package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrUpdateProductCommandIsNotConstructed = errors.New(
	"UpdateProductCommand must be created via NewUpdateProductCommand constructor",
)

// UpdateProductCommand changes the name and/or unit price of a product. Nil fields keep their
// stored value.
type UpdateProductCommand struct {
	restaurantID kernel.RestaurantID
	productID    kernel.UUID
	by           actor.Actor
	name         *string
	unitPrice    *int64

	guard guard.ConstructorGuard
}

func NewUpdateProductCommand(
	restaurantID kernel.RestaurantID,
	productID kernel.UUID,
	by actor.Actor,
	name *string,
	unitPrice *int64,
) (UpdateProductCommand, error) {
	var fieldsErr error
	if name == nil && unitPrice == nil {
		fieldsErr = errs.NewValueIsRequiredError("name or unitPrice")
	}
	if name != nil && *name == "" {
		fieldsErr = errs.NewValueIsRequiredError("name")
	}
	if unitPrice != nil && *unitPrice < 0 {
		fieldsErr = errors.Join(fieldsErr, errs.NewValueIsOutOfRangeError("unitPrice", *unitPrice, 0, "unbounded"))
	}
	if err := errors.Join(restaurantID.Validate(), productID.Validate(), by.Validate(), fieldsErr); err != nil {
		return UpdateProductCommand{}, err
	}
	return UpdateProductCommand{
		restaurantID: restaurantID,
		productID:    productID,
		by:           by,
		name:         name,
		unitPrice:    unitPrice,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateProductCommand) Validate() error {
	return c.guard.Validate(ErrUpdateProductCommandIsNotConstructed)
}

func (c UpdateProductCommand) RestaurantID() kernel.RestaurantID { return c.restaurantID }
func (c UpdateProductCommand) ProductID() kernel.UUID            { return c.productID }
func (c UpdateProductCommand) Actor() actor.Actor                { return c.by }

// Name returns the requested name and whether one was given.
func (c UpdateProductCommand) Name() (string, bool) {
	if c.name == nil {
		return "", false
	}
	return *c.name, true
}

func (c UpdateProductCommand) UnitPrice() (int64, bool) {
	if c.unitPrice == nil {
		return 0, false
	}
	return *c.unitPrice, true
}
