package commands

import (
	"context"
	"log/slog"

	"orderflow/internal/core/domain/model/product"
	domainservices "orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// UpdateProductCommandHandler never writes stock; SaveDetails leaves that column to
// StockReservation.
type UpdateProductCommandHandler struct {
	products ports.ProductRepository
	guard    domainservices.TransitionGuard
	logger   *slog.Logger
}

func NewUpdateProductCommandHandler(ledger ports.Ledger, logger *slog.Logger) (UpdateProductCommandHandler, error) {
	if ledger == nil {
		return UpdateProductCommandHandler{}, errs.NewValueIsRequiredError("ledger")
	}
	if logger == nil {
		return UpdateProductCommandHandler{}, errs.NewValueIsRequiredError("logger")
	}
	return UpdateProductCommandHandler{
		products: ledger.Products(),
		guard:    domainservices.NewTransitionGuard(),
		logger:   logger.With("component", "update-product"),
	}, nil
}

func (h UpdateProductCommandHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*product.Product, error) {
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

	name, unitPrice := p.Name(), p.UnitPrice()
	if v, ok := cmd.Name(); ok {
		name = v
	}
	if v, ok := cmd.UnitPrice(); ok {
		unitPrice = v
	}
	if err := p.UpdateDetails(name, unitPrice); err != nil {
		return nil, err
	}
	if err := h.products.SaveDetails(ctx, p); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "product updated",
		"restaurant_id", p.RestaurantID().String(), "product_id", p.ID().String(), "unit_price", p.UnitPrice())
	return h.products.Get(ctx, cmd.RestaurantID(), cmd.ProductID())
}
