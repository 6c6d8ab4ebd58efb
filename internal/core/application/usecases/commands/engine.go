package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/callback"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	domainservices "orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

const maxUpdateAttempts = 3

// engine holds the steps several order commands share. Each step touches one record and is
// safe to repeat.
type engine struct {
	Workflow
	guard  domainservices.TransitionGuard
	logger *slog.Logger
}

func newEngine(w Workflow, component string) (engine, error) {
	if err := w.Validate(); err != nil {
		return engine{}, err
	}
	return engine{
		Workflow: w,
		guard:    domainservices.NewTransitionGuard(),
		logger:   w.Logger.With("component", component),
	}, nil
}

// releaseStock gives the reservation of a REJECTED or CANCELLED order back to stock. The
// stock_released flag is written before the increments, so a retry never releases twice.
// It returns the order as last stored.
func (e engine) releaseStock(ctx context.Context, o *order.Order) (*order.Order, error) {
	for attempt := 1; o.NeedsStockRelease(); attempt++ {
		if err := o.MarkStockReleased(e.Clock.Now()); err != nil {
			return o, err
		}

		err := e.Ledger.Orders().Update(ctx, o)
		if err == nil {
			return o, e.Stock.Release(context.WithoutCancel(ctx), o.RestaurantID(), o.LineItems())
		}
		if !errors.Is(err, errs.ErrVersionIsInvalid) || attempt == maxUpdateAttempts {
			return o, err
		}

		if o, err = e.Ledger.Orders().Get(ctx, o.RestaurantID(), o.ID()); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (e engine) record(ctx context.Context, o *order.Order, reached order.Status, by actor.Actor, notes, dedupeKey string) error {
	return e.recordFor(ctx, o.RestaurantID(), o.ID(), reached, by, notes, dedupeKey)
}

func (e engine) recordFor(
	ctx context.Context,
	restaurantID kernel.RestaurantID,
	orderID kernel.UUID,
	reached order.Status,
	by actor.Actor,
	notes, dedupeKey string,
) error {
	_, err := e.History.Record(ctx, restaurantID, orderID, reached, by, notes, dedupeKey, e.Clock.Now())
	return err
}

// publish is best effort.
func (e engine) publish(ctx context.Context, o *order.Order, previous order.Status, by actor.Actor) {
	event := ports.StatusChangedEvent{
		RestaurantID:   o.RestaurantID().String(),
		OrderID:        o.ID().String(),
		PreviousStatus: previous.String(),
		Status:         o.Status().String(),
		ActorRole:      by.Role().String(),
		ActorID:        by.ID(),
		OccurredAt:     o.UpdatedAt(),
	}
	if err := e.Events.PublishStatusChanged(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "status event not published",
			"order_id", event.OrderID, "status", event.Status, "error", err)
	}
}

// settle carries out everything that follows the consumption of cb: register the next
// callback, append history, advance the order, release stock after a rejection, resume the
// orchestrator and mark the callback settled. The history entry goes in before the order row
// exposes the next token, so no later stage can be recorded ahead of it. Every step is keyed by
// the callback token, so running settle again for the same callback changes nothing that
// already happened.
func (e engine) settle(ctx context.Context, cb *callback.Callback) (*order.Order, error) {
	res, ok := cb.Resolution()
	if !ok {
		return nil, errs.NewInvalidStateError("callback", cb.State().String(), callback.Consumed.String())
	}
	reached, err := cb.Stage().Outcome(res.Decision())
	if err != nil {
		return nil, err
	}

	if next := res.NextToken(); !next.IsZero() {
		nextStage, ok := order.StageAwaiting(reached)
		if !ok {
			return nil, errs.NewInvalidStateError("order", reached.String(), "a status awaiting a decision")
		}
		if _, err := e.Callbacks.Register(ctx, next, cb.RestaurantID(), cb.OrderID(), nextStage); err != nil {
			return nil, err
		}
	}

	if err := e.recordFor(ctx, cb.RestaurantID(), cb.OrderID(), reached, res.Actor(), res.Notes(), cb.Token().String()); err != nil {
		return nil, err
	}

	o, err := e.applyResolution(ctx, cb, res)
	if err != nil {
		return nil, err
	}

	if o.NeedsStockRelease() {
		if o, err = e.releaseStock(ctx, o); err != nil {
			return nil, err
		}
	}

	err = e.Orchestrator.Resume(ctx, cb.Token(), ports.ResumePayload{
		Stage:     cb.Stage(),
		Decision:  res.Decision(),
		NextToken: res.NextToken(),
	})
	switch {
	case errors.Is(err, ports.ErrTokenExpired), errors.Is(err, ports.ErrTokenInvalid):
		// The ledger already holds the outcome; there is no execution left to deliver it to.
		e.logger.ErrorContext(ctx, "orchestrator no longer waits on token",
			"order_id", o.ID().String(), "stage", cb.Stage().String(), "token", cb.Token().Redacted(), "error", err)
	case err != nil:
		return o, errs.NewTransportError("orchestrator", err)
	}

	if err := e.Callbacks.Settle(ctx, cb); err != nil {
		return o, err
	}
	return o, nil
}

// applyResolution advances the order for cb, retrying lost version races. An order that already
// carries the resolution is returned as is.
func (e engine) applyResolution(ctx context.Context, cb *callback.Callback, res callback.Resolution) (*order.Order, error) {
	for attempt := 1; ; attempt++ {
		o, err := e.Ledger.Orders().Get(ctx, cb.RestaurantID(), cb.OrderID())
		if err != nil {
			return nil, err
		}

		previous := o.Status()
		err = o.Resolve(cb.Token(), cb.Stage(), res.Decision(), res.NextToken(), e.Clock.Now())
		if errors.Is(err, order.ErrResolutionAlreadyApplied) {
			return o, nil
		}
		if err != nil {
			return nil, err
		}

		err = e.Ledger.Orders().Update(ctx, o)
		if err == nil {
			e.publish(ctx, o, previous, res.Actor())
			return o, nil
		}
		if !errors.Is(err, errs.ErrVersionIsInvalid) || attempt == maxUpdateAttempts {
			return nil, err
		}
	}
}
