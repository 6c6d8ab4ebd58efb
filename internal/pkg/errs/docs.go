// Package errs provides standardized error types for the order workflow service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for validation failures and for the order
// workflow taxonomy:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - ObjectNotFoundError: an order, product or history record does not exist
//   - VersionIsInvalidError: an optimistic write lost against a concurrent writer
//   - AccessDeniedError: the actor's role may not perform the transition
//   - InvalidStateError: the transition was requested from the wrong status
//   - InsufficientStockError: a reservation would oversell a product
//   - TokenNotFoundError: a callback token is unknown, expired or already consumed
//   - TransportError: a collaborator (orchestrator, broker) could not be reached
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel
//
// KindOf maps any error produced by this package to a stable machine-readable Kind
// that transport adapters expose to callers.
package errs
