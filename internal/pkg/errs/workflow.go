package errs

import "fmt"

// AccessDeniedError reports an actor whose role is not permitted to perform an action.
type AccessDeniedError struct {
	Role   string
	Action string
}

func NewAccessDeniedError(role, action string) *AccessDeniedError {
	return &AccessDeniedError{Role: role, Action: action}
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("%s: role %s may not %s", ErrAccessDenied, sanitize(e.Role), e.Action)
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}

// InvalidStateError reports a transition requested while the subject is in the wrong status.
type InvalidStateError struct {
	Subject  string
	Current  string
	Expected string
}

func NewInvalidStateError(subject, current, expected string) *InvalidStateError {
	return &InvalidStateError{Subject: subject, Current: current, Expected: expected}
}

func (e *InvalidStateError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: %s is %s", ErrInvalidState, e.Subject, e.Current)
	}
	return fmt.Sprintf("%s: %s is %s, expected %s", ErrInvalidState, e.Subject, e.Current, e.Expected)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// InsufficientStockError reports the first product of a batch that could not be reserved.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func NewInsufficientStockError(productID string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %s requested %d, available %d",
		ErrInsufficientStock, sanitize(e.ProductID), e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// TokenNotFoundError reports a callback token that is unknown, expired or already consumed.
// The token itself is never echoed back.
type TokenNotFoundError struct {
	Reason string
}

func NewTokenNotFoundError(reason string) *TokenNotFoundError {
	return &TokenNotFoundError{Reason: reason}
}

func (e *TokenNotFoundError) Error() string {
	if e.Reason == "" {
		return ErrTokenNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrTokenNotFound, e.Reason)
}

func (e *TokenNotFoundError) Unwrap() error {
	return ErrTokenNotFound
}

// TransportError reports an unreachable or failing collaborator.
type TransportError struct {
	Collaborator string
	Cause        error
}

func NewTransportError(collaborator string, cause error) *TransportError {
	return &TransportError{Collaborator: collaborator, Cause: cause}
}

func (e *TransportError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrTransport, e.Collaborator), e.Cause)
}

func (e *TransportError) Unwrap() error {
	return ErrTransport
}
