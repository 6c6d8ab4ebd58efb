package commands

import (
	"context"

	"orderflow/internal/core/domain/model/callback"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ResolveCallbackCommandHandler applies a kitchen or delivery decision.
//
// Consuming the callback is the one authoritative write: of several concurrent callers with the
// same token exactly one gets past it, the others see TokenNotFoundError. Everything after it is
// a settlement step that can be replayed from the stored resolution.
//
// Example:
//
//	cmd, _ := NewResolveCallbackCommand(token, cook, order.Accept, "", order.KitchenConfirm)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrAccessDenied), errors.Is(err, errs.ErrInvalidState):
//	    // token is still pending
//	case errors.Is(err, errs.ErrTransport):
//	    // decision stored; the settlement job finishes the rest
//	}
type ResolveCallbackCommandHandler struct {
	engine
}

func NewResolveCallbackCommandHandler(w Workflow) (ResolveCallbackCommandHandler, error) {
	e, err := newEngine(w, "resolve-callback")
	if err != nil {
		return ResolveCallbackCommandHandler{}, err
	}
	return ResolveCallbackCommandHandler{engine: e}, nil
}

func (h ResolveCallbackCommandHandler) Handle(ctx context.Context, cmd ResolveCallbackCommand) (result OrderResult, err error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	ctx, span := tracing.Start(ctx, "commands.ResolveCallback", trace.WithAttributes(
		attribute.String("actor_role", cmd.Actor().Role().String()),
		attribute.String("decision", cmd.Decision().String()),
	))
	defer func() { tracing.End(span, err) }()

	cb, err := h.Callbacks.Lookup(ctx, cmd.Token())
	if err != nil {
		return OrderResult{}, err
	}
	span.SetAttributes(
		attribute.String("order_id", cb.OrderID().String()),
		attribute.String("stage", cb.Stage().String()),
	)

	o, err := h.Ledger.Orders().Get(ctx, cb.RestaurantID(), cb.OrderID())
	if err != nil {
		return OrderResult{}, err
	}

	if err := h.authorize(cmd, cb, o); err != nil {
		h.logger.InfoContext(ctx, "callback resolution refused",
			"order_id", o.ID().String(), "stage", cb.Stage().String(),
			"actor_role", cmd.Actor().Role().String(), "error", err)
		return OrderResult{}, err
	}

	reached, err := cb.Stage().Outcome(cmd.Decision())
	if err != nil {
		return OrderResult{}, err
	}
	var next kernel.Token
	if reached.IsAwaiting() {
		if next, err = h.Callbacks.NewToken(); err != nil {
			return OrderResult{}, err
		}
	}

	res, err := callback.NewResolution(cmd.Decision(), cmd.Actor(), cmd.Notes(), next)
	if err != nil {
		return OrderResult{}, err
	}
	if err := h.Callbacks.Consume(ctx, cb, res); err != nil {
		return OrderResult{}, err
	}

	settled, err := h.settle(ctx, cb)
	if err != nil {
		h.logger.WarnContext(ctx, "callback consumed but not settled",
			"order_id", cb.OrderID().String(), "stage", cb.Stage().String(), "error", err)
		return OrderResult{}, err
	}

	return OrderResult{OrderID: settled.ID(), Status: settled.Status()}, nil
}

// authorize runs the transition guard. When the caller addressed a different stage than the one
// the token belongs to, the guard answers for the requested stage and a pass still ends in
// InvalidStateError.
func (h ResolveCallbackCommandHandler) authorize(cmd ResolveCallbackCommand, cb *callback.Callback, o *order.Order) error {
	role := cmd.Actor().Role()
	if requested := cmd.RequestedStage(); requested != order.UnknownStage && requested != cb.Stage() {
		if err := h.guard.Check(requested, o.Status(), role); err != nil {
			return err
		}
		return errs.NewInvalidStateError("callback", cb.Stage().String(), requested.String())
	}
	return h.guard.Check(cb.Stage(), o.Status(), role)
}
