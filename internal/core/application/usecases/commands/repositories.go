// Package commands contains the operations that change order, product and callback state.
// Every command is built through its constructor and handed to a handler that owns nothing but
// its collaborators.
package commands

import (
	"errors"
	"log/slog"

	"orderflow/internal/core/application/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
)

// Workflow is the set of collaborators the order commands share. It is built once in the
// composition root.
//
// Example:
//
//	wf := commands.Workflow{
//	    Ledger:       ledger,
//	    Stock:        stock,
//	    History:      recorder,
//	    Callbacks:    registry,
//	    Orchestrator: orchestrator,
//	    Events:       publisher,
//	    Clock:        clock.System{},
//	    Logger:       logger,
//	}
//	create, err := commands.NewCreateOrderCommandHandler(wf)
type Workflow struct {
	Ledger       ports.Ledger
	Stock        *services.StockReservation
	History      *services.HistoryRecorder
	Callbacks    *services.CallbackRegistry
	Orchestrator ports.Orchestrator
	Events       ports.EventPublisher
	Clock        clock.Clock
	Logger       *slog.Logger
}

// Validate reports every missing collaborator.
func (w Workflow) Validate() error {
	return errors.Join(
		required(w.Ledger == nil, "ledger"),
		required(w.Stock == nil, "stock"),
		required(w.History == nil, "history"),
		required(w.Callbacks == nil, "callbacks"),
		required(w.Orchestrator == nil, "orchestrator"),
		required(w.Events == nil, "events"),
		required(w.Clock == nil, "clock"),
		required(w.Logger == nil, "logger"),
	)
}

func required(missing bool, name string) error {
	if missing {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
