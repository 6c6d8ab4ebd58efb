package commands

import (
	"context"

	"orderflow/internal/core/application/services"
	"orderflow/internal/pkg/errs"
)

// ExpireCallbacksCommandHandler moves overdue callbacks to EXPIRED. Lookups already treat them
// as unknown; the state change is for whoever reads the callback table.
type ExpireCallbacksCommandHandler struct {
	callbacks *services.CallbackRegistry
}

func NewExpireCallbacksCommandHandler(callbacks *services.CallbackRegistry) (ExpireCallbacksCommandHandler, error) {
	if callbacks == nil {
		return ExpireCallbacksCommandHandler{}, errs.NewValueIsRequiredError("callbacks")
	}
	return ExpireCallbacksCommandHandler{callbacks: callbacks}, nil
}

// Handle returns how many callbacks it expired.
func (h ExpireCallbacksCommandHandler) Handle(ctx context.Context, cmd ExpireCallbacksCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.callbacks.ExpireStale(ctx)
}
