package commands

import (
	"context"

	"orderflow/internal/core/application/services"
	"orderflow/internal/core/domain/model/product"
	domainservices "orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// RestockProductCommandHandler goes through StockReservation, the only writer of stock.
type RestockProductCommandHandler struct {
	products ports.ProductRepository
	stock    *services.StockReservation
	guard    domainservices.TransitionGuard
}

func NewRestockProductCommandHandler(ledger ports.Ledger, stock *services.StockReservation) (RestockProductCommandHandler, error) {
	if ledger == nil {
		return RestockProductCommandHandler{}, errs.NewValueIsRequiredError("ledger")
	}
	if stock == nil {
		return RestockProductCommandHandler{}, errs.NewValueIsRequiredError("stock")
	}
	return RestockProductCommandHandler{
		products: ledger.Products(),
		stock:    stock,
		guard:    domainservices.NewTransitionGuard(),
	}, nil
}

// Handle returns the product as stored after the increment.
func (h RestockProductCommandHandler) Handle(ctx context.Context, cmd RestockProductCommand) (*product.Product, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := h.guard.CanManageCatalog(cmd.Actor().Role()); err != nil {
		return nil, err
	}

	p, err := h.products.Get(ctx, cmd.RestaurantID(), cmd.ProductID())
	if err != nil {
		return nil, err
	}
	if p.IsRetired() {
		return nil, errs.NewObjectNotFoundError("product", cmd.ProductID().String())
	}
	if err := h.stock.Restock(ctx, cmd.RestaurantID(), cmd.ProductID(), cmd.Quantity()); err != nil {
		return nil, err
	}
	return h.products.Get(ctx, cmd.RestaurantID(), cmd.ProductID())
}
