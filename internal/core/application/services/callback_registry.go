package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/callback"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
)

const DefaultCallbackTTL = 48 * time.Hour

// CallbackRegistry owns the token index. A token is consumable exactly once; unknown, expired,
// invalidated and consumed tokens all look the same to callers.
type CallbackRegistry struct {
	callbacks ports.CallbackRepository
	clock     clock.Clock
	ttl       time.Duration
	logger    *slog.Logger
}

func NewCallbackRegistry(ledger ports.Ledger, clk clock.Clock, ttl time.Duration, logger *slog.Logger) (*CallbackRegistry, error) {
	if ledger == nil {
		return nil, errs.NewValueIsRequiredError("ledger")
	}
	if clk == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	if ttl <= 0 {
		ttl = DefaultCallbackTTL
	}
	return &CallbackRegistry{
		callbacks: ledger.Callbacks(),
		clock:     clk,
		ttl:       ttl,
		logger:    logger.With("component", "callback-registry"),
	}, nil
}

// TTL is how long a registered callback stays resolvable.
func (r *CallbackRegistry) TTL() time.Duration {
	return r.ttl
}

// NewToken draws a token without registering it.
func (r *CallbackRegistry) NewToken() (kernel.Token, error) {
	return kernel.NewToken()
}

// Issue draws a token and registers it for the stage of an order.
func (r *CallbackRegistry) Issue(ctx context.Context, restaurantID kernel.RestaurantID, orderID kernel.UUID, stage order.Stage) (kernel.Token, error) {
	token, err := r.NewToken()
	if err != nil {
		return kernel.Token{}, err
	}
	if _, err := r.Register(ctx, token, restaurantID, orderID, stage); err != nil {
		return kernel.Token{}, err
	}
	return token, nil
}

// Register records a pending callback for an already drawn token. Registering the same token for
// the same order and stage twice is harmless.
func (r *CallbackRegistry) Register(
	ctx context.Context,
	token kernel.Token,
	restaurantID kernel.RestaurantID,
	orderID kernel.UUID,
	stage order.Stage,
) (*callback.Callback, error) {
	cb, err := callback.Issue(token, restaurantID, orderID, stage, r.clock.Now(), r.ttl)
	if err != nil {
		return nil, err
	}
	if err := r.callbacks.Add(ctx, cb); err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	return cb, nil
}

// Lookup returns the pending callback for token or TokenNotFoundError.
func (r *CallbackRegistry) Lookup(ctx context.Context, token kernel.Token) (*callback.Callback, error) {
	cb, err := r.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := cb.Unavailable(r.clock.Now()); err != nil {
		return nil, err
	}
	return cb, nil
}

// Get returns the callback for token in any state.
func (r *CallbackRegistry) Get(ctx context.Context, token kernel.Token) (*callback.Callback, error) {
	cb, err := r.callbacks.Get(ctx, token)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewTokenNotFoundError("unknown callback")
	}
	if err != nil {
		return nil, err
	}
	return cb, nil
}

// Consume atomically moves cb from PENDING to CONSUMED with res. Of several concurrent callers
// exactly one succeeds; the rest get TokenNotFoundError.
func (r *CallbackRegistry) Consume(ctx context.Context, cb *callback.Callback, res callback.Resolution) error {
	if err := cb.Consume(res, r.clock.Now()); err != nil {
		return err
	}
	return r.callbacks.Consume(ctx, cb)
}

// Settle marks the follow-up work of a consumed callback as done.
func (r *CallbackRegistry) Settle(ctx context.Context, cb *callback.Callback) error {
	if err := cb.Settle(r.clock.Now()); err != nil {
		return err
	}
	return r.callbacks.MarkSettled(ctx, cb)
}

// Invalidate withdraws a pending token. It fails with TokenNotFoundError when the token is no
// longer pending, which is how a cancellation loses against a decision that got there first.
func (r *CallbackRegistry) Invalidate(ctx context.Context, token kernel.Token) error {
	cb, err := r.Lookup(ctx, token)
	if err != nil {
		return err
	}
	if err := cb.Invalidate(); err != nil {
		return err
	}
	return r.callbacks.Invalidate(ctx, cb)
}

// ListUnsettled returns callbacks consumed more than grace ago whose follow-up never finished.
func (r *CallbackRegistry) ListUnsettled(ctx context.Context, grace time.Duration, limit int) ([]*callback.Callback, error) {
	return r.callbacks.ListConsumedBefore(ctx, r.clock.Now().Add(-grace), limit)
}

// ExpireStale marks every pending callback past its deadline as EXPIRED.
func (r *CallbackRegistry) ExpireStale(ctx context.Context) (int64, error) {
	n, err := r.callbacks.ExpirePendingBefore(ctx, r.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.logger.InfoContext(ctx, "expired stale callbacks", "count", n)
	}
	return n, nil
}
