package http

import (
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/generated/servers"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var _ servers.ServerInterface = (*Server)(nil)

// Handlers are the use cases the HTTP surface exposes.
type Handlers struct {
	CreateOrder      commands.CreateOrderCommandHandler
	CancelOrder      commands.CancelOrderCommandHandler
	ResolveCallback  commands.ResolveCallbackCommandHandler
	CreateProduct    commands.CreateProductCommandHandler
	RestockProduct   commands.RestockProductCommandHandler
	UpdateProduct    commands.UpdateProductCommandHandler
	DeleteProduct    commands.DeleteProductCommandHandler
	GetOrder         queries.GetOrderQueryHandler
	ListOrders       queries.ListOrdersQueryHandler
	ListOrderHistory queries.ListOrderHistoryQueryHandler
	ListProducts     queries.ListProductsQueryHandler
	GetProduct       queries.GetProductQueryHandler
	CheckStock       queries.CheckStockQueryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// bind decodes the request body into dst and reports malformed JSON as a validation error.
func bind(ctx echo.Context, dst any) error {
	if err := ctx.Bind(dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return nil
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
