package queries

import (
	"context"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

type GetProductQueryHandler struct {
	products ports.ProductRepository
}

func NewGetProductQueryHandler(ledger ports.Ledger) (GetProductQueryHandler, error) {
	if ledger == nil {
		return GetProductQueryHandler{}, errs.NewValueIsRequiredError("ledger")
	}
	return GetProductQueryHandler{products: ledger.Products()}, nil
}

// Handle reports a retired product as not found.
func (h GetProductQueryHandler) Handle(ctx context.Context, query GetProductQuery) (ProductResponse, error) {
	if err := query.Validate(); err != nil {
		return ProductResponse{}, err
	}

	p, err := h.products.Get(ctx, query.restaurantID, query.productID)
	if err != nil {
		return ProductResponse{}, err
	}
	if p.IsRetired() {
		return ProductResponse{}, errs.NewObjectNotFoundError("product", query.productID.String())
	}
	return NewProductResponse(p), nil
}
