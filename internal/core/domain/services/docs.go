// Package services provides domain services whose rules span several domain types.
//
// The package includes:
//   - TransitionGuard: the single role and status precondition table for every order transition
//
// Domain services here are pure: no I/O, no clock, no state.
package services
