package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"orderflow/internal/core/ports"
	"orderflow/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1"

// NewRouter assembles the echo instance: request logging, recovery, bearer authentication,
// OpenAPI request validation, the API routes, /health and the swagger UI.
func NewRouter(server *Server, authorizer ports.Authorizer, logger *slog.Logger) (*echo.Echo, error) {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	registerDoc(swagger)

	validate, err := ValidateRequests(swagger, BasePath)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelWarn
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(Authenticate(authorizer, "/health", BasePath+"/health", "/swagger/*"))
	e.Use(validate)

	e.GET("/health", server.GetHealth)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	servers.RegisterHandlersWithBaseURL(e, server, BasePath)

	return e, nil
}

// openAPIDoc serves the OpenAPI document to the swagger UI.
type openAPIDoc struct {
	body string
}

func (d openAPIDoc) ReadDoc() string {
	return d.body
}

var registerOnce sync.Once

// registerDoc publishes the document under swag's default instance name. swag panics on a
// second registration, so only the first router of the process registers.
func registerDoc(swagger *openapi3.T) {
	registerOnce.Do(func() {
		body, err := json.Marshal(swagger)
		if err != nil {
			slog.ErrorContext(context.Background(), "openapi document not published", "error", err)
			return
		}
		swag.Register(swag.Name, openAPIDoc{body: string(body)})
	})
}
