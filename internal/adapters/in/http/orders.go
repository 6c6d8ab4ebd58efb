package http

import (
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CreateOrder handles POST /orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	who, err := actorOf(ctx)
	if err != nil {
		return err
	}

	var body servers.NewOrder
	if err := bind(ctx, &body); err != nil {
		return err
	}

	restaurantID, err := kernel.RestaurantIDOrDefault(optional(body.RestaurantId))
	if err != nil {
		return err
	}
	orderID := kernel.NewUUID()
	if body.OrderId != nil {
		if orderID, err = kernel.UUIDFromBytes(body.OrderId[:]); err != nil {
			return err
		}
	}
	items, err := lineItemsFromBody(body.LineItems)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, restaurantID, who, optional(body.CustomerRef), items)
	if err != nil {
		return err
	}
	result, err := s.h.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, statusResponse(result))
}

// ListOrders handles GET /orders.
func (s *Server) ListOrders(ctx echo.Context, params servers.ListOrdersParams) error {
	who, err := actorOf(ctx)
	if err != nil {
		return err
	}
	restaurantID, err := kernel.RestaurantIDOrDefault(optional(params.RestaurantId))
	if err != nil {
		return err
	}

	var statuses []order.Status
	if params.Status != nil {
		for _, raw := range *params.Status {
			st, err := order.ParseStatus(string(raw))
			if err != nil {
				return err
			}
			statuses = append(statuses, st)
		}
	}

	query, err := queries.NewListOrdersQuery(restaurantID, who, statuses, optional(params.Cursor), optionalInt(params.Limit))
	if err != nil {
		return err
	}
	page, err := s.h.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	resp := servers.OrderPage{Orders: make([]servers.Order, 0, len(page.Orders))}
	for _, o := range page.Orders {
		resp.Orders = append(resp.Orders, orderToBody(o))
	}
	if page.NextCursor != "" {
		resp.NextCursor = &page.NextCursor
	}
	return ctx.JSON(http.StatusOK, resp)
}

// GetOrder handles GET /orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId servers.OrderId, params servers.GetOrderParams) error {
	who, err := actorOf(ctx)
	if err != nil {
		return err
	}
	restaurantID, orderID, err := orderKey(params.RestaurantId, orderId)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(restaurantID, orderID, who)
	if err != nil {
		return err
	}
	o, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, orderToBody(o))
}

// CancelOrder handles POST /orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderId servers.OrderId) error {
	who, err := actorOf(ctx)
	if err != nil {
		return err
	}

	var body servers.CancelRequest
	if ctx.Request().ContentLength != 0 {
		if err := bind(ctx, &body); err != nil {
			return err
		}
	}
	restaurantID, orderID, err := orderKey(body.RestaurantId, orderId)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(restaurantID, orderID, who, optional(body.Notes))
	if err != nil {
		return err
	}
	result, err := s.h.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, statusResponse(result))
}

// ListOrderHistory handles GET /orders/{orderId}/history.
func (s *Server) ListOrderHistory(ctx echo.Context, orderId servers.OrderId, params servers.ListOrderHistoryParams) error {
	if _, err := actorOf(ctx); err != nil {
		return err
	}
	restaurantID, orderID, err := orderKey(params.RestaurantId, orderId)
	if err != nil {
		return err
	}
	var after int64
	if params.After != nil {
		after = *params.After
	}

	query, err := queries.NewListOrderHistoryQuery(restaurantID, orderID, after, optionalInt(params.Limit))
	if err != nil {
		return err
	}
	page, err := s.h.ListOrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	resp := servers.HistoryPage{Entries: make([]servers.HistoryEntry, 0, len(page.Entries))}
	for _, e := range page.Entries {
		entry := servers.HistoryEntry{
			SequenceId:   e.SequenceID,
			StageReached: servers.OrderStatus(e.StageReached.String()),
			ActorRole:    e.ActorRole.String(),
			ActorId:      e.ActorID,
			RecordedAt:   e.RecordedAt,
		}
		if e.Notes != "" {
			entry.Notes = &e.Notes
		}
		resp.Entries = append(resp.Entries, entry)
	}
	if page.NextAfter != 0 {
		resp.NextAfter = &page.NextAfter
	}
	return ctx.JSON(http.StatusOK, resp)
}

// orderKey resolves the restaurant and entity id of a path-addressed order or product.
func orderKey(restaurant *string, id openapi_types.UUID) (kernel.RestaurantID, kernel.UUID, error) {
	restaurantID, err := kernel.RestaurantIDOrDefault(optional(restaurant))
	if err != nil {
		return kernel.RestaurantID{}, kernel.UUID{}, err
	}
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.RestaurantID{}, kernel.UUID{}, err
	}
	return restaurantID, orderID, nil
}

func lineItemsFromBody(body []servers.LineItem) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(body))
	for _, li := range body {
		productID, err := kernel.UUIDFromBytes(li.ProductId[:])
		if err != nil {
			return nil, err
		}
		item, err := order.NewLineItem(productID, li.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func statusResponse(r commands.OrderResult) servers.OrderStatusResponse {
	return servers.OrderStatusResponse{
		OrderId: r.OrderID.Bytes(),
		Status:  servers.OrderStatus(r.Status.String()),
	}
}

func orderToBody(o queries.OrderResponse) servers.Order {
	body := servers.Order{
		OrderId:      o.ID.Bytes(),
		RestaurantId: o.RestaurantID.String(),
		CustomerRef:  o.CustomerRef,
		Status:       servers.OrderStatus(o.Status.String()),
		LineItems:    make([]servers.LineItem, 0, len(o.LineItems)),
		TotalPrice:   o.TotalPrice,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	for _, li := range o.LineItems {
		body.LineItems = append(body.LineItems, servers.LineItem{ProductId: li.ProductID.Bytes(), Quantity: li.Quantity})
	}
	if o.AwaitedStage != order.UnknownStage {
		stage := o.AwaitedStage.String()
		body.AwaitedStage = &stage
	}
	if o.PendingToken != "" {
		body.PendingToken = &o.PendingToken
	}
	return body
}
