package http

import (
	"errors"
	"net/http"

	"orderflow/internal/core/ports"
	"orderflow/internal/generated/servers"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const kindUnauthenticated = "unauthenticated"

var statusByKind = map[errs.Kind]int{
	errs.KindValidation:        http.StatusBadRequest,
	errs.KindAuthorization:     http.StatusForbidden,
	errs.KindInvalidState:      http.StatusConflict,
	errs.KindInsufficientStock: http.StatusConflict,
	errs.KindTokenNotFound:     http.StatusGone,
	errs.KindNotFound:          http.StatusNotFound,
	errs.KindConflict:          http.StatusConflict,
	errs.KindTransport:         http.StatusServiceUnavailable,
	errs.KindInternal:          http.StatusInternalServerError,
}

// Problem turns err into the response body every failed request carries.
func Problem(err error) servers.Error {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, ports.ErrUnauthenticated):
		return servers.Error{Code: http.StatusUnauthorized, Kind: kindUnauthenticated, Message: "missing or invalid bearer token"}
	case errors.As(err, &he):
		return servers.Error{Code: he.Code, Kind: string(kindOfStatus(he.Code)), Message: httpErrorMessage(he)}
	}

	kind := errs.KindOf(err)
	code := statusByKind[kind]
	msg := err.Error()
	if kind == errs.KindInternal {
		msg = http.StatusText(code)
	}
	return servers.Error{Code: code, Kind: string(kind), Message: msg}
}

// ErrorHandler is installed as echo's HTTPErrorHandler so handlers can simply return errors.
func ErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}
	problem := Problem(err)
	if problem.Code >= http.StatusInternalServerError {
		ctx.Logger().Error(err)
	}
	if writeErr := ctx.JSON(problem.Code, problem); writeErr != nil {
		ctx.Logger().Error(writeErr)
	}
}

func kindOfStatus(code int) errs.Kind {
	switch code {
	case http.StatusUnauthorized:
		return kindUnauthenticated
	case http.StatusForbidden:
		return errs.KindAuthorization
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errs.KindNotFound
	case http.StatusServiceUnavailable:
		return errs.KindTransport
	}
	if code >= http.StatusInternalServerError {
		return errs.KindInternal
	}
	return errs.KindValidation
}

func httpErrorMessage(he *echo.HTTPError) string {
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return http.StatusText(he.Code)
}
