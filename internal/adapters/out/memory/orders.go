package memory

import (
	"context"
	"slices"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/pagination"
)

type orderRepository struct {
	l *Ledger
}

func orderKey(restaurantID kernel.RestaurantID, id kernel.UUID) recordKey {
	return recordKey{restaurant: restaurantID.String(), id: id.String()}
}

func cloneOrder(o *order.Order) (*order.Order, error) {
	return order.RestoreOrder(o.RestaurantID(), o.ID(), o.CustomerRef(), o.LineItems(), o.TotalPrice(),
		o.Status(), o.PendingToken(), o.LastToken(), o.StockReleased(), o.Version(), o.CreatedAt(), o.UpdatedAt())
}

func (r *orderRepository) Add(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	stored, err := cloneOrder(o)
	if err != nil {
		return err
	}

	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	key := orderKey(o.RestaurantID(), o.ID())
	if _, exists := r.l.orders[key]; exists {
		return errs.NewVersionIsInvalidError("order already exists")
	}
	r.l.orders[key] = stored
	return nil
}

func (r *orderRepository) Update(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	key := orderKey(o.RestaurantID(), o.ID())
	current, ok := r.l.orders[key]
	if !ok {
		return errs.NewObjectNotFoundError("orderID", o.ID().String())
	}
	if current.Version() != o.Version() {
		return errs.NewVersionIsInvalidError("order")
	}

	o.AdvanceVersion()
	stored, err := cloneOrder(o)
	if err != nil {
		return err
	}
	r.l.orders[key] = stored
	return nil
}

func (r *orderRepository) Get(_ context.Context, restaurantID kernel.RestaurantID, id kernel.UUID) (*order.Order, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	stored, ok := r.l.orders[orderKey(restaurantID, id)]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id.String())
	}
	return cloneOrder(stored)
}

func (r *orderRepository) List(_ context.Context, filter ports.OrderFilter, cursor string, limit int) ([]*order.Order, string, error) {
	after, hasCursor, err := pagination.Decode(cursor)
	if err != nil {
		return nil, "", err
	}
	limit = pagination.ClampLimit(limit)

	r.l.mu.Lock()
	matches := make([]*order.Order, 0)
	for _, o := range r.l.orders {
		if !matchesFilter(o, filter) {
			continue
		}
		if hasCursor && !after.After(o.CreatedAt(), o.ID().String()) {
			continue
		}
		matches = append(matches, o)
	}
	r.l.mu.Unlock()

	slices.SortFunc(matches, func(a, b *order.Order) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		return strings.Compare(b.ID().String(), a.ID().String())
	})

	var next string
	if len(matches) > limit {
		matches = matches[:limit]
		last := matches[limit-1]
		next = pagination.Cursor{At: last.CreatedAt(), ID: last.ID().String()}.Encode()
	}

	page := make([]*order.Order, 0, len(matches))
	for _, o := range matches {
		c, err := cloneOrder(o)
		if err != nil {
			return nil, "", err
		}
		page = append(page, c)
	}
	return page, next, nil
}

func matchesFilter(o *order.Order, f ports.OrderFilter) bool {
	if f.RestaurantID.Validate() == nil && !o.RestaurantID().IsEqual(f.RestaurantID) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status()) {
		return false
	}
	if f.CustomerRef != "" && o.CustomerRef() != f.CustomerRef {
		return false
	}
	return true
}
