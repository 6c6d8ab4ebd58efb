package queries

import (
	"context"

	domainservices "orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

type GetOrderQueryHandler struct {
	orders ports.OrderRepository
	guard  domainservices.TransitionGuard
}

func NewGetOrderQueryHandler(ledger ports.Ledger) (GetOrderQueryHandler, error) {
	if ledger == nil {
		return GetOrderQueryHandler{}, errs.NewValueIsRequiredError("ledger")
	}
	return GetOrderQueryHandler{
		orders: ledger.Orders(),
		guard:  domainservices.NewTransitionGuard(),
	}, nil
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.restaurantID, query.orderID)
	if err != nil {
		return OrderResponse{}, err
	}
	if err := h.guard.CanView(o, query.by); err != nil {
		return OrderResponse{}, err
	}
	return newOrderResponse(o, query.by), nil
}
