package queries

import (
	"context"
	"errors"

	"orderflow/internal/core/application/services"
	"orderflow/internal/pkg/errs"
)

type CheckStockQueryHandler struct {
	stock *services.StockReservation
}

func NewCheckStockQueryHandler(stock *services.StockReservation) (CheckStockQueryHandler, error) {
	if stock == nil {
		return CheckStockQueryHandler{}, errs.NewValueIsRequiredError("stock")
	}
	return CheckStockQueryHandler{stock: stock}, nil
}

// Handle answers a shortage as data. Unknown or retired products are still a validation error.
func (h CheckStockQueryHandler) Handle(ctx context.Context, query CheckStockQuery) (CheckStockQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CheckStockQueryResponse{}, err
	}

	checked, err := h.stock.Check(ctx, query.restaurantID, query.lineItems)
	var shortage *errs.InsufficientStockError
	switch {
	case errors.As(err, &shortage):
		return CheckStockQueryResponse{
			Shortage: &ShortageResponse{
				ProductID: shortage.ProductID,
				Requested: shortage.Requested,
				Available: shortage.Available,
			},
		}, nil
	case err != nil:
		return CheckStockQueryResponse{}, err
	}

	lines := make([]LineItemResponse, 0, len(checked.Items))
	for _, it := range checked.Items {
		lines = append(lines, LineItemResponse{ProductID: it.ProductID(), Quantity: it.Quantity()})
	}
	return CheckStockQueryResponse{Available: true, LineItems: lines, TotalPrice: checked.TotalPrice}, nil
}
