package errs

import (
	"context"
	"errors"
)

// Kind is the stable machine-readable category of an error.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindAuthorization     Kind = "authorization"
	KindInvalidState      Kind = "invalid_state"
	KindInsufficientStock Kind = "insufficient_stock"
	KindTokenNotFound     Kind = "token_not_found"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindTransport         Kind = "transport"
	KindInternal          Kind = "internal"
)

// KindOf classifies err. Joined errors are classified by their first recognised member.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindValidation
	case errors.Is(err, ErrAccessDenied):
		return KindAuthorization
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrTokenNotFound):
		return KindTokenNotFound
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrVersionIsInvalid):
		return KindConflict
	case errors.Is(err, ErrTransport),
		errors.Is(err, context.DeadlineExceeded):
		return KindTransport
	default:
		return KindInternal
	}
}
