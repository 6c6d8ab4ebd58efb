package memory

import (
	"context"
	"slices"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/pagination"
)

type productRepository struct {
	l *Ledger
}

func cloneProduct(p *product.Product) (*product.Product, error) {
	return product.RestoreProduct(p.RestaurantID(), p.ID(), p.Name(), p.UnitPrice(), p.Stock(), p.CreatedAt(), p.RetiredAt())
}

func (r *productRepository) Add(_ context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	stored, err := cloneProduct(p)
	if err != nil {
		return err
	}

	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	key := orderKey(p.RestaurantID(), p.ID())
	if _, exists := r.l.products[key]; exists {
		return errs.NewVersionIsInvalidError("product already exists")
	}
	r.l.products[key] = stored
	return nil
}

func (r *productRepository) Get(_ context.Context, restaurantID kernel.RestaurantID, id kernel.UUID) (*product.Product, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	stored, ok := r.l.products[orderKey(restaurantID, id)]
	if !ok {
		return nil, errs.NewObjectNotFoundError("productID", id.String())
	}
	return cloneProduct(stored)
}

func (r *productRepository) List(_ context.Context, restaurantID kernel.RestaurantID, cursor string, limit int) ([]*product.Product, string, error) {
	after, hasCursor, err := pagination.Decode(cursor)
	if err != nil {
		return nil, "", err
	}
	limit = pagination.ClampLimit(limit)

	r.l.mu.Lock()
	matches := make([]*product.Product, 0)
	for _, p := range r.l.products {
		if !p.RestaurantID().IsEqual(restaurantID) || p.IsRetired() {
			continue
		}
		if hasCursor && !after.After(p.CreatedAt(), p.ID().String()) {
			continue
		}
		matches = append(matches, p)
	}
	r.l.mu.Unlock()

	slices.SortFunc(matches, func(a, b *product.Product) int {
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

	page := make([]*product.Product, 0, len(matches))
	for _, p := range matches {
		c, err := cloneProduct(p)
		if err != nil {
			return nil, "", err
		}
		page = append(page, c)
	}
	return page, next, nil
}

func (r *productRepository) SaveDetails(_ context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	stored, ok := r.l.products[orderKey(p.RestaurantID(), p.ID())]
	if !ok {
		return errs.NewObjectNotFoundError("productID", p.ID().String())
	}
	// Keep the stored stock; only the details come from p.
	updated, err := product.RestoreProduct(p.RestaurantID(), p.ID(), p.Name(), p.UnitPrice(), stored.Stock(), stored.CreatedAt(), p.RetiredAt())
	if err != nil {
		return err
	}
	r.l.products[orderKey(p.RestaurantID(), p.ID())] = updated
	return nil
}

func (r *productRepository) DecrementStock(_ context.Context, restaurantID kernel.RestaurantID, id kernel.UUID, quantity int) (bool, error) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	stored, ok := r.l.products[orderKey(restaurantID, id)]
	if !ok {
		return false, errs.NewObjectNotFoundError("productID", id.String())
	}
	if !stored.CanReserve(quantity) {
		return false, nil
	}
	if err := stored.Reserve(quantity); err != nil {
		return false, err
	}
	return true, nil
}

func (r *productRepository) IncrementStock(_ context.Context, restaurantID kernel.RestaurantID, id kernel.UUID, quantity int) error {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	stored, ok := r.l.products[orderKey(restaurantID, id)]
	if !ok {
		return errs.NewObjectNotFoundError("productID", id.String())
	}
	return stored.Restock(quantity)
}
