package commands

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand places an order for a customer of one restaurant.
//
// Example:
//
//	items := []order.LineItem{pizza, soda}
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), restaurantID, customer, "", items)
//	if err != nil {
//	    return fmt.Errorf("invalid order: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	restaurantID kernel.RestaurantID
	by           actor.Actor
	customerRef  string
	lineItems    []order.LineItem

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand builds the command. customerRef defaults to the actor's id; only an
// Admin may place an order on behalf of somebody else.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	restaurantID kernel.RestaurantID,
	by actor.Actor,
	customerRef string,
	lineItems []order.LineItem,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRestaurantID(restaurantID),
		cmd.setActor(by),
		cmd.setLineItems(lineItems),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	if err := cmd.setCustomerRef(customerRef); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID              { return c.orderID }
func (c CreateOrderCommand) RestaurantID() kernel.RestaurantID { return c.restaurantID }
func (c CreateOrderCommand) Actor() actor.Actor                { return c.by }
func (c CreateOrderCommand) CustomerRef() string               { return c.customerRef }

func (c CreateOrderCommand) LineItems() []order.LineItem {
	items := make([]order.LineItem, len(c.lineItems))
	copy(items, c.lineItems)
	return items
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setRestaurantID(id kernel.RestaurantID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.restaurantID = id
	return nil
}

func (c *CreateOrderCommand) setActor(by actor.Actor) error {
	if err := by.Validate(); err != nil {
		return err
	}
	c.by = by
	return nil
}

func (c *CreateOrderCommand) setCustomerRef(ref string) error {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "" || ref == c.by.ID():
		c.customerRef = c.by.ID()
	case c.by.Role() == actor.Admin:
		c.customerRef = ref
	default:
		return errs.NewAccessDeniedError(c.by.Role().String(), "order on behalf of another customer")
	}
	return nil
}

func (c *CreateOrderCommand) setLineItems(items []order.LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}
	merged, err := order.MergeLineItems(items)
	if err != nil {
		return err
	}
	c.lineItems = merged
	return nil
}
