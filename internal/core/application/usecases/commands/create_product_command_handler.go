package commands

import (
	"context"
	"log/slog"

	"orderflow/internal/core/domain/model/product"
	domainservices "orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
)

type CreateProductCommandHandler struct {
	products ports.ProductRepository
	clock    clock.Clock
	guard    domainservices.TransitionGuard
	logger   *slog.Logger
}

func NewCreateProductCommandHandler(ledger ports.Ledger, clk clock.Clock, logger *slog.Logger) (CreateProductCommandHandler, error) {
	if ledger == nil {
		return CreateProductCommandHandler{}, errs.NewValueIsRequiredError("ledger")
	}
	if clk == nil {
		return CreateProductCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}
	if logger == nil {
		return CreateProductCommandHandler{}, errs.NewValueIsRequiredError("logger")
	}
	return CreateProductCommandHandler{
		products: ledger.Products(),
		clock:    clk,
		guard:    domainservices.NewTransitionGuard(),
		logger:   logger.With("component", "create-product"),
	}, nil
}

func (h CreateProductCommandHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*product.Product, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := h.guard.CanManageCatalog(cmd.Actor().Role()); err != nil {
		return nil, err
	}

	p, err := product.NewProduct(cmd.RestaurantID(), cmd.ProductID(), cmd.Name(), cmd.UnitPrice(), cmd.Stock(), h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := h.products.Add(ctx, p); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "product created",
		"restaurant_id", p.RestaurantID().String(), "product_id", p.ID().String(), "stock", p.Stock())
	return p, nil
}
