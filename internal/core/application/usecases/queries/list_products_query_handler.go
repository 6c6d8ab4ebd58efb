package queries

import (
	"context"

	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

type ListProductsQueryHandler struct {
	products ports.ProductRepository
}

func NewListProductsQueryHandler(ledger ports.Ledger) (ListProductsQueryHandler, error) {
	if ledger == nil {
		return ListProductsQueryHandler{}, errs.NewValueIsRequiredError("ledger")
	}
	return ListProductsQueryHandler{products: ledger.Products()}, nil
}

func (h ListProductsQueryHandler) Handle(ctx context.Context, query ListProductsQuery) (ListProductsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListProductsQueryResponse{}, err
	}

	found, next, err := h.products.List(ctx, query.restaurantID, query.cursor, query.limit)
	if err != nil {
		return ListProductsQueryResponse{}, err
	}

	resp := ListProductsQueryResponse{
		Products:   make([]ProductResponse, 0, len(found)),
		NextCursor: next,
	}
	for _, p := range found {
		resp.Products = append(resp.Products, NewProductResponse(p))
	}
	return resp, nil
}

// NewProductResponse is also used by the HTTP adapter to answer product commands.
func NewProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID(),
		Name:      p.Name(),
		UnitPrice: p.UnitPrice(),
		Stock:     p.Stock(),
		CreatedAt: p.CreatedAt(),
	}
}
