// Package guard holds small structural checks shared by domain objects and use-case inputs.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built by its constructor. Embed it in a struct and call
// Validate from the struct's own Validate to reject zero values.
//
//	type ResolveCallbackCommand struct {
//	    token string
//	    guard guard.ConstructorGuard
//	}
//
//	func (c ResolveCallbackCommand) Validate() error {
//	    return c.guard.Validate(ErrResolveCallbackCommandNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil) for a zero-value guard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
