package queries

import (
	"context"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

type ListOrdersQueryHandler struct {
	orders ports.OrderRepository
}

func NewListOrdersQueryHandler(ledger ports.Ledger) (ListOrdersQueryHandler, error) {
	if ledger == nil {
		return ListOrdersQueryHandler{}, errs.NewValueIsRequiredError("ledger")
	}
	return ListOrdersQueryHandler{orders: ledger.Orders()}, nil
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersQueryResponse{}, err
	}

	filter := ports.OrderFilter{
		RestaurantID: query.restaurantID,
		Statuses:     query.statuses,
	}
	if query.by.Role() == actor.Customer {
		filter.CustomerRef = query.by.ID()
	}

	found, next, err := h.orders.List(ctx, filter, query.cursor, query.limit)
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}

	resp := ListOrdersQueryResponse{
		Orders:     make([]OrderResponse, 0, len(found)),
		NextCursor: next,
	}
	for _, o := range found {
		resp.Orders = append(resp.Orders, newOrderResponse(o, query.by))
	}
	return resp, nil
}
