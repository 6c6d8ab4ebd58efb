package http

import (
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CreateProduct handles POST /products.
func (s *Server) CreateProduct(ctx echo.Context) error {
	who, err := actorOf(ctx)
	if err != nil {
		return err
	}

	var body servers.NewProduct
	if err := bind(ctx, &body); err != nil {
		return err
	}
	restaurantID, err := kernel.RestaurantIDOrDefault(optional(body.RestaurantId))
	if err != nil {
		return err
	}
	productID := kernel.NewUUID()
	if body.ProductId != nil {
		if productID, err = kernel.UUIDFromBytes(body.ProductId[:]); err != nil {
			return err
		}
	}

	cmd, err := commands.NewCreateProductCommand(restaurantID, productID, who, body.Name, body.UnitPrice, body.Stock)
	if err != nil {
		return err
	}
	p, err := s.h.CreateProduct.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, productToBody(queries.NewProductResponse(p)))
}

// ListProducts handles GET /products.
func (s *Server) ListProducts(ctx echo.Context, params servers.ListProductsParams) error {
	if _, err := actorOf(ctx); err != nil {
		return err
	}
	restaurantID, err := kernel.RestaurantIDOrDefault(optional(params.RestaurantId))
	if err != nil {
		return err
	}

	query, err := queries.NewListProductsQuery(restaurantID, optional(params.Cursor), optionalInt(params.Limit))
	if err != nil {
		return err
	}
	page, err := s.h.ListProducts.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	resp := servers.ProductPage{Products: make([]servers.Product, 0, len(page.Products))}
	for _, p := range page.Products {
		resp.Products = append(resp.Products, productToBody(p))
	}
	if page.NextCursor != "" {
		resp.NextCursor = &page.NextCursor
	}
	return ctx.JSON(http.StatusOK, resp)
}

// RestockProduct handles POST /products/{productId}/restock.
func (s *Server) RestockProduct(ctx echo.Context, productId openapi_types.UUID) error {
	who, err := actorOf(ctx)
	if err != nil {
		return err
	}

	var body servers.RestockRequest
	if err := bind(ctx, &body); err != nil {
		return err
	}
	restaurantID, err := kernel.RestaurantIDOrDefault(optional(body.RestaurantId))
	if err != nil {
		return err
	}
	productID, err := kernel.UUIDFromBytes(productId[:])
	if err != nil {
		return err
	}

	cmd, err := commands.NewRestockProductCommand(restaurantID, productID, who, body.Quantity)
	if err != nil {
		return err
	}
	p, err := s.h.RestockProduct.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, productToBody(queries.NewProductResponse(p)))
}

// GetProduct handles GET /products/{productId}.
func (s *Server) GetProduct(ctx echo.Context, productId servers.ProductId, params servers.GetProductParams) error {
	if _, err := actorOf(ctx); err != nil {
		return err
	}
	restaurantID, productID, err := orderKey(params.RestaurantId, productId)
	if err != nil {
		return err
	}

	query, err := queries.NewGetProductQuery(restaurantID, productID)
	if err != nil {
		return err
	}
	p, err := s.h.GetProduct.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, productToBody(p))
}

// UpdateProduct handles PATCH /products/{productId}.
func (s *Server) UpdateProduct(ctx echo.Context, productId servers.ProductId) error {
	who, err := actorOf(ctx)
	if err != nil {
		return err
	}

	var body servers.ProductUpdate
	if err := bind(ctx, &body); err != nil {
		return err
	}
	restaurantID, productID, err := orderKey(body.RestaurantId, productId)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateProductCommand(restaurantID, productID, who, body.Name, body.UnitPrice)
	if err != nil {
		return err
	}
	p, err := s.h.UpdateProduct.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, productToBody(queries.NewProductResponse(p)))
}

// DeleteProduct handles DELETE /products/{productId}.
func (s *Server) DeleteProduct(ctx echo.Context, productId servers.ProductId, params servers.DeleteProductParams) error {
	who, err := actorOf(ctx)
	if err != nil {
		return err
	}
	restaurantID, productID, err := orderKey(params.RestaurantId, productId)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteProductCommand(restaurantID, productID, who)
	if err != nil {
		return err
	}
	if err := s.h.DeleteProduct.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CheckStock handles POST /stock/check.
func (s *Server) CheckStock(ctx echo.Context) error {
	if _, err := actorOf(ctx); err != nil {
		return err
	}

	var body servers.StockCheckRequest
	if err := bind(ctx, &body); err != nil {
		return err
	}
	restaurantID, err := kernel.RestaurantIDOrDefault(optional(body.RestaurantId))
	if err != nil {
		return err
	}
	items, err := lineItemsFromBody(body.LineItems)
	if err != nil {
		return err
	}

	query, err := queries.NewCheckStockQuery(restaurantID, items)
	if err != nil {
		return err
	}
	checked, err := s.h.CheckStock.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	resp := servers.StockCheck{
		Available:  checked.Available,
		LineItems:  make([]servers.LineItem, 0, len(checked.LineItems)),
		TotalPrice: checked.TotalPrice,
	}
	for _, li := range checked.LineItems {
		resp.LineItems = append(resp.LineItems, servers.LineItem{ProductId: li.ProductID.Bytes(), Quantity: li.Quantity})
	}
	if sh := checked.Shortage; sh != nil {
		resp.Shortage = &servers.StockShortage{ProductId: sh.ProductID, Requested: sh.Requested, Available: sh.Available}
	}
	return ctx.JSON(http.StatusOK, resp)
}

func productToBody(p queries.ProductResponse) servers.Product {
	return servers.Product{
		ProductId: p.ID.Bytes(),
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}
