package http

import (
	"errors"
	"net/http"
	"strings"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

const actorKey = "orderflow.actor"

// Authenticate resolves the bearer token of every request not listed in public and stores the
// actor on the context.
func Authenticate(authorizer ports.Authorizer, public ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			path := ctx.Request().URL.Path
			if isPublic(path, public) {
				return next(ctx)
			}

			bearer, ok := strings.CutPrefix(ctx.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok {
				return ports.ErrUnauthenticated
			}
			who, err := authorizer.Validate(ctx.Request().Context(), strings.TrimSpace(bearer))
			if err != nil {
				return err
			}
			ctx.Set(actorKey, who)
			return next(ctx)
		}
	}
}

// isPublic matches exact paths and, for entries ending in "*", prefixes.
func isPublic(path string, public []string) bool {
	for _, p := range public {
		if prefix, wildcard := strings.CutSuffix(p, "*"); wildcard && strings.HasPrefix(path, prefix) || path == p {
			return true
		}
	}
	return false
}

// actorOf returns the actor Authenticate stored.
func actorOf(ctx echo.Context) (actor.Actor, error) {
	who, ok := ctx.Get(actorKey).(actor.Actor)
	if !ok {
		return actor.Actor{}, ports.ErrUnauthenticated
	}
	return who, nil
}

// ValidateRequests checks parameters and bodies against the OpenAPI document. Requests under
// basePath are matched with the prefix removed; paths the document does not know pass through.
func ValidateRequests(swagger *openapi3.T, basePath string) (echo.MiddlewareFunc, error) {
	swagger.Servers = nil
	router, err := legacy.NewRouter(swagger)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         false,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			if !strings.HasPrefix(req.URL.Path, basePath) {
				return next(ctx)
			}

			matched := req.Clone(req.Context())
			matched.URL.Path = strings.TrimPrefix(req.URL.Path, basePath)
			route, pathParams, err := router.FindRoute(matched)
			if err != nil {
				if errors.Is(err, routers.ErrPathNotFound) {
					return next(ctx)
				}
				return echo.NewHTTPError(http.StatusMethodNotAllowed, err.Error())
			}

			err = openapi3filter.ValidateRequest(req.Context(), &openapi3filter.RequestValidationInput{
				Request:    matched,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			})
			if err != nil {
				return errs.NewValueIsInvalidErrorWithCause("request", err)
			}
			// The validator consumed the body of the clone and restored it there.
			req.Body = matched.Body
			return next(ctx)
		}
	}, nil
}
