// Package order provides the Order aggregate root and the fixed stage machine it moves through.
//
// The package includes:
//   - Order: the aggregate root holding line items, price, status and the outstanding callback token
//   - Status: lifecycle states, CREATED through DELIVERED plus the REJECTED and CANCELLED terminals
//   - Stage: the four human-gated steps and the transition table that maps (stage, decision) to a status
//   - Decision: ACCEPT or REJECT, the payload of a resolved step
//   - LineItem: a product and a positive quantity
//
// Key business rules:
//   - Status only advances along CREATED → PENDING_KITCHEN_DECISION → COOKING → READY_FOR_PICKUP →
//     OUT_FOR_DELIVERY → DELIVERED, except for REJECT at kitchen-confirm and cancellation
//   - A pending token is present if and only if the status is an awaiting status
//   - Applying the same token twice is detected and reported, never re-applied
//   - Reserved stock is released at most once, and only from REJECTED or CANCELLED
package order
