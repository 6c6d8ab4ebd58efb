// Package product holds the Product entity whose stock is reserved by orders.
package product

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

const maxNameLength = 200

var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Product is a sellable item with a non-negative stock counter.
type Product struct {
	restaurantID kernel.RestaurantID
	id           kernel.UUID
	name         string
	unitPrice    int64
	stock        int
	createdAt    time.Time
	retiredAt    time.Time

	isConstructed bool
}

func NewProduct(restaurantID kernel.RestaurantID, id kernel.UUID, name string, unitPrice int64, stock int, now time.Time) (*Product, error) {
	p := &Product{createdAt: now.UTC(), isConstructed: true}

	if err := errors.Join(
		restaurantID.Validate(),
		id.Validate(),
		p.setName(name),
		p.setUnitPrice(unitPrice),
		p.setStock(stock),
	); err != nil {
		return nil, err
	}
	p.restaurantID = restaurantID
	p.id = id

	return p, nil
}

// RestoreProduct rebuilds a product read from storage. A zero retiredAt means the product is
// still on sale.
func RestoreProduct(
	restaurantID kernel.RestaurantID,
	id kernel.UUID,
	name string,
	unitPrice int64,
	stock int,
	createdAt time.Time,
	retiredAt time.Time,
) (*Product, error) {
	p, err := NewProduct(restaurantID, id, name, unitPrice, stock, createdAt)
	if err != nil {
		return nil, err
	}
	if !retiredAt.IsZero() {
		p.retiredAt = retiredAt.UTC()
	}
	return p, nil
}

func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

func (p *Product) RestaurantID() kernel.RestaurantID { return p.restaurantID }
func (p *Product) ID() kernel.UUID                   { return p.id }
func (p *Product) Name() string                      { return p.name }
func (p *Product) UnitPrice() int64                  { return p.unitPrice }
func (p *Product) Stock() int                        { return p.stock }
func (p *Product) CreatedAt() time.Time              { return p.createdAt }
func (p *Product) RetiredAt() time.Time              { return p.retiredAt }
func (p *Product) IsRetired() bool                   { return !p.retiredAt.IsZero() }

// UpdateDetails changes the name and the unit price. Stock is not a detail; it only moves
// through reservations and restocks. Orders already placed keep the price they were charged.
func (p *Product) UpdateDetails(name string, unitPrice int64) error {
	if p.IsRetired() {
		return errs.NewInvalidStateError("product", "retired", "on sale")
	}
	next := *p
	if err := errors.Join(next.setName(name), next.setUnitPrice(unitPrice)); err != nil {
		return err
	}
	p.name, p.unitPrice = next.name, next.unitPrice
	return nil
}

// Retire takes the product off sale. The row stays so that orders holding a reservation can
// still give their units back. Retiring twice keeps the first date.
func (p *Product) Retire(now time.Time) {
	if p.IsRetired() {
		return
	}
	p.retiredAt = now.UTC()
}

// CanReserve reports whether quantity units are available.
func (p *Product) CanReserve(quantity int) bool {
	return quantity > 0 && p.stock >= quantity
}

// Reserve decrements stock. It fails with InsufficientStockError rather than going negative.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	if p.stock < quantity {
		return errs.NewInsufficientStockError(p.id.String(), quantity, p.stock)
	}
	p.stock -= quantity
	return nil
}

// Restock returns quantity units to stock.
func (p *Product) Restock(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	p.stock += quantity
	return nil
}

func (p *Product) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if len(name) > maxNameLength {
		return errs.NewValueIsOutOfRangeError("name length", len(name), 1, maxNameLength)
	}
	p.name = name
	return nil
}

func (p *Product) setUnitPrice(price int64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unitPrice", fmt.Errorf("%d is negative", price))
	}
	p.unitPrice = price
	return nil
}

func (p *Product) setStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stock", fmt.Errorf("%d is negative", stock))
	}
	p.stock = stock
	return nil
}
