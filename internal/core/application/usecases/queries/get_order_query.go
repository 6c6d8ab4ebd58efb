package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order. Customers may only read their own.
type GetOrderQuery struct {
	restaurantID kernel.RestaurantID
	orderID      kernel.UUID
	by           actor.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(restaurantID kernel.RestaurantID, orderID kernel.UUID, by actor.Actor) (GetOrderQuery, error) {
	if err := errors.Join(restaurantID.Validate(), orderID.Validate(), by.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		restaurantID: restaurantID,
		orderID:      orderID,
		by:           by,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// LineItemResponse is one product line of an order.
type LineItemResponse struct {
	ProductID kernel.UUID
	Quantity  int
}

// OrderResponse is the read model of an order. PendingToken is only filled in for staff, who
// need it to resolve the waiting stage.
type OrderResponse struct {
	ID           kernel.UUID
	RestaurantID kernel.RestaurantID
	CustomerRef  string
	Status       order.Status
	AwaitedStage order.Stage
	LineItems    []LineItemResponse
	TotalPrice   int64
	PendingToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func newOrderResponse(o *order.Order, viewer actor.Actor) OrderResponse {
	items := o.LineItems()
	lines := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		lines = append(lines, LineItemResponse{ProductID: it.ProductID(), Quantity: it.Quantity()})
	}

	resp := OrderResponse{
		ID:           o.ID(),
		RestaurantID: o.RestaurantID(),
		CustomerRef:  o.CustomerRef(),
		Status:       o.Status(),
		LineItems:    lines,
		TotalPrice:   o.TotalPrice(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}
	if stage, ok := order.StageAwaiting(o.Status()); ok {
		resp.AwaitedStage = stage
	}
	if viewer.Role() != actor.Customer {
		resp.PendingToken = o.PendingToken().String()
	}
	return resp
}
