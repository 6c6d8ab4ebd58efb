// Package kernel provides the shared value objects of the order workflow domain.
//
// The package includes:
//   - UUID: identifier for orders and products
//   - Token: opaque, unguessable handle for one suspended workflow step
//   - RestaurantID: tenant key that scopes every order and product record
//
// All values are immutable and their zero values are invalid; construct them through
// the provided factory functions and call Validate when restoring them from storage.
package kernel
