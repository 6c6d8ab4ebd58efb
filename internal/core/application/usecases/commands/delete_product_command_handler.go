package commands

import (
	"context"
	"log/slog"

	domainservices "orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
)

// DeleteProductCommandHandler retires the product instead of removing the row: orders that
// still hold a reservation release it against the same row when they are cancelled or rejected.
type DeleteProductCommandHandler struct {
	products ports.ProductRepository
	clock    clock.Clock
	guard    domainservices.TransitionGuard
	logger   *slog.Logger
}

func NewDeleteProductCommandHandler(ledger ports.Ledger, clk clock.Clock, logger *slog.Logger) (DeleteProductCommandHandler, error) {
	if ledger == nil {
		return DeleteProductCommandHandler{}, errs.NewValueIsRequiredError("ledger")
	}
	if clk == nil {
		return DeleteProductCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}
	if logger == nil {
		return DeleteProductCommandHandler{}, errs.NewValueIsRequiredError("logger")
	}
	return DeleteProductCommandHandler{
		products: ledger.Products(),
		clock:    clk,
		guard:    domainservices.NewTransitionGuard(),
		logger:   logger.With("component", "delete-product"),
	}, nil
}

// Handle is idempotent: deleting a retired product succeeds and keeps the first retirement time.
func (h DeleteProductCommandHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.guard.CanManageCatalog(cmd.Actor().Role()); err != nil {
		return err
	}

	p, err := h.products.Get(ctx, cmd.RestaurantID(), cmd.ProductID())
	if err != nil {
		return err
	}
	if p.IsRetired() {
		return nil
	}
	p.Retire(h.clock.Now())
	if err := h.products.SaveDetails(ctx, p); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "product retired",
		"restaurant_id", p.RestaurantID().String(), "product_id", p.ID().String(), "stock_left", p.Stock())
	return nil
}
