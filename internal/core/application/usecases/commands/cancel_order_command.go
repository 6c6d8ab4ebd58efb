package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand withdraws an order the kitchen has not accepted yet.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	restaurantID kernel.RestaurantID
	orderID      kernel.UUID
	by           actor.Actor
	notes        string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(restaurantID kernel.RestaurantID, orderID kernel.UUID, by actor.Actor, notes string) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		restaurantID.Validate(),
		orderID.Validate(),
		by.Validate(),
		cmd.setNotes(notes),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	cmd.restaurantID = restaurantID
	cmd.orderID = orderID
	cmd.by = by
	return cmd, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) RestaurantID() kernel.RestaurantID { return c.restaurantID }
func (c CancelOrderCommand) OrderID() kernel.UUID              { return c.orderID }
func (c CancelOrderCommand) Actor() actor.Actor                { return c.by }
func (c CancelOrderCommand) Notes() string                     { return c.notes }

func (c *CancelOrderCommand) setNotes(notes string) error {
	if len(notes) > history.MaxNotesLength {
		return errs.NewValueIsOutOfRangeError("notes", len(notes), 0, history.MaxNotesLength)
	}
	c.notes = notes
	return nil
}
