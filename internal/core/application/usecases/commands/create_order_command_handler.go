package commands

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OrderResult is what the order commands report back.
type OrderResult struct {
	OrderID kernel.UUID
	Status  order.Status
}

// CreateOrderCommandHandler reserves stock, stores the order and starts its workflow.
//
// Example:
//
//	handler, _ := NewCreateOrderCommandHandler(wf)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInsufficientStock):
//	    // nothing was reserved
//	case errors.Is(err, errs.ErrTransport):
//	    // the order exists as CANCELLED and its stock is back
//	}
type CreateOrderCommandHandler struct {
	engine
}

func NewCreateOrderCommandHandler(w Workflow) (CreateOrderCommandHandler, error) {
	e, err := newEngine(w, "create-order")
	if err != nil {
		return CreateOrderCommandHandler{}, err
	}
	return CreateOrderCommandHandler{engine: e}, nil
}

// Handle runs the creation steps in order:
//
//  1. refuse an order id that is already taken
//  2. reserve every line item (all or nothing)
//  3. store the order as CREATED and record it in history
//  4. register the kitchen-confirm callback and start the orchestrator
//  5. record PENDING_KITCHEN_DECISION, then store it with the token
//
// History is written before the order row that makes the next transition possible, so entries
// follow the order of the transitions. Once the order row exists every failure cancels it and
// returns its stock.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (result OrderResult, err error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}

	ctx, span := tracing.Start(ctx, "commands.CreateOrder", trace.WithAttributes(
		attribute.String("restaurant_id", cmd.RestaurantID().String()),
		attribute.String("order_id", cmd.OrderID().String()),
	))
	defer func() { tracing.End(span, err) }()

	if err := h.guard.CanCreate(cmd.Actor().Role()); err != nil {
		return OrderResult{}, err
	}

	_, err = h.Ledger.Orders().Get(ctx, cmd.RestaurantID(), cmd.OrderID())
	switch {
	case err == nil:
		return OrderResult{}, errs.NewVersionIsInvalidError("order already exists")
	case !errors.Is(err, errs.ErrObjectNotFound):
		return OrderResult{}, err
	}

	reservation, err := h.Stock.Reserve(ctx, cmd.RestaurantID(), cmd.LineItems())
	if err != nil {
		return OrderResult{}, err
	}

	o, err := order.NewOrder(cmd.RestaurantID(), cmd.OrderID(), cmd.CustomerRef(),
		reservation.Items, reservation.TotalPrice, h.Clock.Now())
	if err == nil {
		err = h.Ledger.Orders().Add(ctx, o)
	}
	if err != nil {
		// No order record holds the reservation yet.
		_ = h.Stock.Release(context.WithoutCancel(ctx), cmd.RestaurantID(), reservation.Items)
		return OrderResult{}, err
	}

	if err := h.record(ctx, o, order.Created, cmd.Actor(), "", "created"); err != nil {
		return h.abort(ctx, o, cmd, err)
	}

	token, err := h.start(ctx, o)
	if err != nil {
		return h.abort(ctx, o, cmd, err)
	}

	if err := h.record(ctx, o, order.PendingKitchenDecision, cmd.Actor(), "", "awaiting-kitchen"); err != nil {
		h.withdraw(ctx, o, token)
		return h.abort(ctx, o, cmd, err)
	}

	previous := o.Status()
	if err := o.AwaitKitchenDecision(token, h.Clock.Now()); err != nil {
		h.withdraw(ctx, o, token)
		return h.abort(ctx, o, cmd, err)
	}
	if err := h.Ledger.Orders().Update(ctx, o); err != nil {
		h.withdraw(ctx, o, token)
		return h.abort(ctx, o, cmd, fmt.Errorf("store pending order: %w", err))
	}
	h.publish(ctx, o, previous, cmd.Actor())

	h.logger.InfoContext(ctx, "order created",
		"restaurant_id", o.RestaurantID().String(),
		"order_id", o.ID().String(),
		"total_price", o.TotalPrice())

	return OrderResult{OrderID: o.ID(), Status: o.Status()}, nil
}

// start registers the first callback and launches the orchestrator. The token the orchestrator
// reports is the one that counts.
func (h CreateOrderCommandHandler) start(ctx context.Context, o *order.Order) (kernel.Token, error) {
	first, err := h.Callbacks.Issue(ctx, o.RestaurantID(), o.ID(), order.KitchenConfirm)
	if err != nil {
		return kernel.Token{}, err
	}

	token, err := h.Orchestrator.Start(ctx, ports.WorkflowInput{
		RestaurantID: o.RestaurantID(),
		OrderID:      o.ID(),
		FirstToken:   first,
	})
	if err != nil {
		_ = h.Callbacks.Invalidate(context.WithoutCancel(ctx), first)
		if errors.Is(err, errs.ErrTransport) {
			return kernel.Token{}, err
		}
		return kernel.Token{}, errs.NewTransportError("orchestrator", err)
	}

	if !token.IsEqual(first) {
		if _, err := h.Callbacks.Register(ctx, token, o.RestaurantID(), o.ID(), order.KitchenConfirm); err != nil {
			return kernel.Token{}, err
		}
		_ = h.Callbacks.Invalidate(ctx, first)
	}
	return token, nil
}

func (h CreateOrderCommandHandler) withdraw(ctx context.Context, o *order.Order, token kernel.Token) {
	ctx = context.WithoutCancel(ctx)
	_ = h.Callbacks.Invalidate(ctx, token)
	if err := h.Orchestrator.Resume(ctx, token, ports.ResumePayload{Stage: order.KitchenConfirm, Cancelled: true}); err != nil {
		h.logger.WarnContext(ctx, "orchestrator not told about cancellation", "order_id", o.ID().String(), "error", err)
	}
}

// abort cancels an order whose workflow never got going and returns its stock. The order is
// read back first because the copy in hand may hold changes that were never stored. The caller
// gets the original cause.
func (h CreateOrderCommandHandler) abort(ctx context.Context, o *order.Order, cmd CreateOrderCommand, cause error) (OrderResult, error) {
	ctx = context.WithoutCancel(ctx)
	h.logger.ErrorContext(ctx, "order workflow did not start",
		"order_id", o.ID().String(), "error", cause)

	stored, err := h.Ledger.Orders().Get(ctx, o.RestaurantID(), o.ID())
	if err != nil {
		return OrderResult{}, errors.Join(cause, err)
	}
	previous := stored.Status()
	if previous != order.Cancelled {
		if err := stored.Cancel(h.Clock.Now()); err != nil {
			return OrderResult{}, errors.Join(cause, err)
		}
		if err := h.Ledger.Orders().Update(ctx, stored); err != nil {
			return OrderResult{}, errors.Join(cause, err)
		}
	}
	if _, err := h.releaseStock(ctx, stored); err != nil {
		return OrderResult{}, errors.Join(cause, err)
	}
	if err := h.record(ctx, stored, order.Cancelled, cmd.Actor(), "workflow did not start", "cancelled"); err != nil {
		h.logger.ErrorContext(ctx, "cancellation not recorded", "order_id", o.ID().String(), "error", err)
	}
	h.publish(ctx, stored, previous, cmd.Actor())

	return OrderResult{}, cause
}
