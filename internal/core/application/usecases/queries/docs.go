// Package queries contains read-only operations. Handlers read through the ledger ports and
// return flat response structs that the HTTP adapter maps onto its wire types.
package queries
