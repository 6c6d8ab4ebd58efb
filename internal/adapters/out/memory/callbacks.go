package memory

import (
	"context"
	"slices"
	"time"

	"orderflow/internal/core/domain/model/callback"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

type callbackRepository struct {
	l *Ledger
}

func cloneCallback(cb *callback.Callback) (*callback.Callback, error) {
	var res *callback.Resolution
	if r, ok := cb.Resolution(); ok {
		res = &r
	}
	return callback.RestoreCallback(cb.Token(), cb.RestaurantID(), cb.OrderID(), cb.Stage(), cb.State(),
		cb.IssuedAt(), cb.ExpiresAt(), cb.ConsumedAt(), cb.SettledAt(), res)
}

func (r *callbackRepository) Add(_ context.Context, cb *callback.Callback) error {
	if err := cb.Validate(); err != nil {
		return err
	}
	stored, err := cloneCallback(cb)
	if err != nil {
		return err
	}

	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	if existing, ok := r.l.callbacks[cb.Token().String()]; ok {
		if existing.OrderID().IsEqual(cb.OrderID()) && existing.Stage() == cb.Stage() {
			return nil
		}
		return errs.NewVersionIsInvalidError("callback token already registered")
	}
	r.l.callbacks[cb.Token().String()] = stored
	return nil
}

func (r *callbackRepository) Get(_ context.Context, token kernel.Token) (*callback.Callback, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	stored, ok := r.l.callbacks[token.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("token", token.Redacted())
	}
	return cloneCallback(stored)
}

func (r *callbackRepository) Consume(_ context.Context, cb *callback.Callback) error {
	res, ok := cb.Resolution()
	if !ok || cb.State() != callback.Consumed {
		return errs.NewInvalidStateError("callback", cb.State().String(), callback.Consumed.String())
	}

	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	stored, found := r.l.callbacks[cb.Token().String()]
	if !found {
		return errs.NewTokenNotFoundError("unknown callback")
	}
	return stored.Consume(res, cb.ConsumedAt())
}

func (r *callbackRepository) MarkSettled(_ context.Context, cb *callback.Callback) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	stored, found := r.l.callbacks[cb.Token().String()]
	if !found {
		return errs.NewObjectNotFoundError("token", cb.Token().Redacted())
	}
	return stored.Settle(cb.SettledAt())
}

func (r *callbackRepository) Invalidate(_ context.Context, cb *callback.Callback) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	stored, found := r.l.callbacks[cb.Token().String()]
	if !found {
		return errs.NewObjectNotFoundError("token", cb.Token().Redacted())
	}
	return stored.Invalidate()
}

func (r *callbackRepository) ListConsumedBefore(_ context.Context, t time.Time, limit int) ([]*callback.Callback, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	matches := make([]*callback.Callback, 0)
	for _, cb := range r.l.callbacks {
		if cb.State() == callback.Consumed && cb.ConsumedAt().Before(t) {
			matches = append(matches, cb)
		}
	}
	slices.SortFunc(matches, func(a, b *callback.Callback) int {
		return a.ConsumedAt().Compare(b.ConsumedAt())
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]*callback.Callback, 0, len(matches))
	for _, cb := range matches {
		c, err := cloneCallback(cb)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *callbackRepository) ExpirePendingBefore(_ context.Context, now time.Time) (int64, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	var n int64
	for _, cb := range r.l.callbacks {
		if cb.State() == callback.Pending && cb.IsExpired(now) {
			if err := cb.Expire(now); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
