package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
	"orderflow/internal/pkg/pagination"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery pages through the orders of a restaurant, newest first. Kitchen and delivery
// staff filter by status to build their queues; customers always see only their own orders.
//
// Example:
//
//	query, _ := NewListOrdersQuery(restaurantID, cook, []order.Status{order.PendingKitchenDecision}, "", 20)
//	page, err := handler.Handle(ctx, query)
//	// page.NextCursor is empty on the last page
type ListOrdersQuery struct {
	restaurantID kernel.RestaurantID
	by           actor.Actor
	statuses     []order.Status
	cursor       string
	limit        int

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(
	restaurantID kernel.RestaurantID,
	by actor.Actor,
	statuses []order.Status,
	cursor string,
	limit int,
) (ListOrdersQuery, error) {
	var statusErrs error
	for _, s := range statuses {
		statusErrs = errors.Join(statusErrs, s.Validate())
	}
	_, _, cursorErr := pagination.Decode(cursor)

	if err := errors.Join(restaurantID.Validate(), by.Validate(), statusErrs, cursorErr); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{
		restaurantID: restaurantID,
		by:           by,
		statuses:     statuses,
		cursor:       cursor,
		limit:        pagination.ClampLimit(limit),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

type ListOrdersQueryResponse struct {
	Orders     []OrderResponse
	NextCursor string
}
