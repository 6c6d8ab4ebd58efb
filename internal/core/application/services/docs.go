// Package services holds the application services the order workflow engine is composed of.
//
// The package includes:
//   - StockReservation: all-or-nothing reservation with a verification pass, guarded decrements
//     and compensation
//   - HistoryRecorder: idempotent, strictly ordered audit appends and paginated reads
//   - CallbackRegistry: issues tokens and guards their single consumption
//
// Services talk to the ledger only through ports and never span more than one record per write.
package services
