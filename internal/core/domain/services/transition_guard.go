package services

import (
	"slices"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

var (
	kitchenRoles  = []actor.Role{actor.Cook, actor.Manager, actor.Admin}
	deliveryRoles = []actor.Role{actor.Deliverer, actor.Manager, actor.Admin}

	stageRoles = map[order.Stage][]actor.Role{
		order.KitchenConfirm:   kitchenRoles,
		order.KitchenComplete:  kitchenRoles,
		order.DeliveryTake:     deliveryRoles,
		order.DeliveryComplete: deliveryRoles,
	}

	createRoles  = []actor.Role{actor.Customer, actor.Admin}
	catalogRoles = []actor.Role{actor.Manager, actor.Admin}
)

// TransitionGuard decides whether an actor may move an order. Role is checked before status,
// so a caller with the wrong role learns nothing about the order's state.
//
// Example usage:
//
//	guard := services.NewTransitionGuard()
//	if err := guard.Check(order.KitchenComplete, o.Status(), cook.Role()); err != nil {
//	    // errs.ErrAccessDenied: wrong person, errs.ErrInvalidState: wrong time
//	}
type TransitionGuard struct{}

func NewTransitionGuard() TransitionGuard {
	return TransitionGuard{}
}

// Allowed is Check reduced to a boolean.
func (g TransitionGuard) Allowed(stage order.Stage, current order.Status, role actor.Role) bool {
	return g.Check(stage, current, role) == nil
}

// Check returns AccessDeniedError when role may not resolve stage and InvalidStateError when
// current is not the status stage expects.
func (g TransitionGuard) Check(stage order.Stage, current order.Status, role actor.Role) error {
	if err := stage.Validate(); err != nil {
		return err
	}
	if !slices.Contains(stageRoles[stage], role) {
		return errs.NewAccessDeniedError(role.String(), "resolve "+stage.String())
	}
	if current != stage.ExpectedStatus() {
		return errs.NewInvalidStateError("order", current.String(), stage.ExpectedStatus().String())
	}
	return nil
}

// CanCreate reports whether role may place orders.
func (g TransitionGuard) CanCreate(role actor.Role) error {
	if !slices.Contains(createRoles, role) {
		return errs.NewAccessDeniedError(role.String(), "create orders")
	}
	return nil
}

// CanCancel allows the owning customer and staff to cancel before the kitchen commits.
func (g TransitionGuard) CanCancel(o *order.Order, by actor.Actor) error {
	switch {
	case by.Role().IsStaff():
	case by.Role() == actor.Customer && o.IsOwnedBy(by.ID()):
	default:
		return errs.NewAccessDeniedError(by.Role().String(), "cancel this order")
	}
	if !o.Status().IsCancellable() {
		return errs.NewInvalidStateError("order", o.Status().String(), "CREATED or PENDING_KITCHEN_DECISION")
	}
	return nil
}

// CanView limits customers to their own orders.
func (g TransitionGuard) CanView(o *order.Order, by actor.Actor) error {
	if by.Role() == actor.Customer && !o.IsOwnedBy(by.ID()) {
		return errs.NewAccessDeniedError(by.Role().String(), "view this order")
	}
	return nil
}

// CanManageCatalog reports whether role may create and restock products.
func (g TransitionGuard) CanManageCatalog(role actor.Role) error {
	if !slices.Contains(catalogRoles, role) {
		return errs.NewAccessDeniedError(role.String(), "manage products")
	}
	return nil
}
