package commands

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CancelOrderCommandHandler cancels an order while it is PENDING_KITCHEN_DECISION. A CREATED order
// still belongs to the CreateOrder call placing it, which cancels it itself when it fails.
//
// A pending kitchen callback is invalidated first. That write races against a kitchen decision
// on the same token; if the kitchen wins, the cancellation fails with InvalidStateError.
// Cancelling an already cancelled order only finishes an interrupted stock release.
type CancelOrderCommandHandler struct {
	engine
}

func NewCancelOrderCommandHandler(w Workflow) (CancelOrderCommandHandler, error) {
	e, err := newEngine(w, "cancel-order")
	if err != nil {
		return CancelOrderCommandHandler{}, err
	}
	return CancelOrderCommandHandler{engine: e}, nil
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (result OrderResult, err error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	ctx, span := tracing.Start(ctx, "commands.CancelOrder", trace.WithAttributes(
		attribute.String("restaurant_id", cmd.RestaurantID().String()),
		attribute.String("order_id", cmd.OrderID().String()),
	))
	defer func() { tracing.End(span, err) }()

	o, err := h.Ledger.Orders().Get(ctx, cmd.RestaurantID(), cmd.OrderID())
	if err != nil {
		return OrderResult{}, err
	}

	if o.Status() == order.Cancelled {
		if err := h.guard.CanView(o, cmd.Actor()); err != nil {
			return OrderResult{}, err
		}
		if o, err = h.finish(ctx, o, cmd); err != nil {
			return OrderResult{}, err
		}
		return OrderResult{OrderID: o.ID(), Status: o.Status()}, nil
	}

	if err := h.guard.CanCancel(o, cmd.Actor()); err != nil {
		return OrderResult{}, err
	}
	if o.Status() == order.Created {
		return OrderResult{}, errs.NewInvalidStateError("order", "still being placed", order.PendingKitchenDecision.String())
	}

	pending := o.PendingToken()
	if !pending.IsZero() {
		err := h.Callbacks.Invalidate(ctx, pending)
		if errors.Is(err, errs.ErrTokenNotFound) {
			return OrderResult{}, errs.NewInvalidStateError("order", "decided by the kitchen", order.PendingKitchenDecision.String())
		}
		if err != nil {
			return OrderResult{}, err
		}
	}

	previous := o.Status()
	if err := o.Cancel(h.Clock.Now()); err != nil {
		return OrderResult{}, err
	}
	if err := h.Ledger.Orders().Update(ctx, o); err != nil {
		return OrderResult{}, err
	}
	h.publish(ctx, o, previous, cmd.Actor())

	if !pending.IsZero() {
		err := h.Orchestrator.Resume(ctx, pending, ports.ResumePayload{
			Stage:     order.KitchenConfirm,
			Cancelled: true,
		})
		if err != nil {
			h.logger.WarnContext(ctx, "orchestrator not told about cancellation",
				"order_id", o.ID().String(), "error", err)
		}
	}

	if o, err = h.finish(ctx, o, cmd); err != nil {
		return OrderResult{}, err
	}

	h.logger.InfoContext(ctx, "order cancelled",
		"order_id", o.ID().String(), "actor_role", cmd.Actor().Role().String())
	return OrderResult{OrderID: o.ID(), Status: o.Status()}, nil
}

func (h CancelOrderCommandHandler) finish(ctx context.Context, o *order.Order, cmd CancelOrderCommand) (*order.Order, error) {
	o, err := h.releaseStock(ctx, o)
	if err != nil {
		return nil, err
	}
	if err := h.record(ctx, o, order.Cancelled, cmd.Actor(), cmd.Notes(), "cancelled"); err != nil {
		return nil, err
	}
	return o, nil
}
