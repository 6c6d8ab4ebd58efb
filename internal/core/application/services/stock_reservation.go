package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// Reservation is the outcome of a successful Reserve.
type Reservation struct {
	Items      []order.LineItem
	TotalPrice int64
}

// StockReservation is the only component that mutates product stock.
type StockReservation struct {
	products ports.ProductRepository
	logger   *slog.Logger
}

func NewStockReservation(ledger ports.Ledger, logger *slog.Logger) (*StockReservation, error) {
	if ledger == nil {
		return nil, errs.NewValueIsRequiredError("ledger")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	return &StockReservation{
		products: ledger.Products(),
		logger:   logger.With("component", "stock-reservation"),
	}, nil
}

// Check runs the verification pass of Reserve without writing anything. It merges duplicate
// products, prices the batch and fails with InsufficientStockError on the first shortage.
// Unknown and retired products are rejected as invalid line items.
func (s *StockReservation) Check(ctx context.Context, restaurantID kernel.RestaurantID, items []order.LineItem) (Reservation, error) {
	if len(items) == 0 {
		return Reservation{}, errs.NewValueIsRequiredError("lineItems")
	}
	merged, err := order.MergeLineItems(items)
	if err != nil {
		return Reservation{}, err
	}

	var total int64
	for _, it := range merged {
		p, err := s.products.Get(ctx, restaurantID, it.ProductID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			return Reservation{}, errs.NewValueIsInvalidErrorWithCause("lineItems", err)
		}
		if err != nil {
			return Reservation{}, fmt.Errorf("read product %s: %w", it.ProductID(), err)
		}
		if p.IsRetired() {
			return Reservation{}, errs.NewValueIsInvalidErrorWithCause("lineItems",
				errs.NewObjectNotFoundError("product", it.ProductID().String()))
		}
		if !p.CanReserve(it.Quantity()) {
			return Reservation{}, errs.NewInsufficientStockError(it.ProductID().String(), it.Quantity(), p.Stock())
		}
		total += p.UnitPrice() * int64(it.Quantity())
	}
	return Reservation{Items: merged, TotalPrice: total}, nil
}

// Reserve takes every line item out of stock or none of them.
//
// Check runs first and fails before anything is written. The mutation pass then decrements
// each product under a stock >= quantity guard; if a guard fails because a concurrent
// reservation got there first, the items already taken are put back and
// InsufficientStockError is returned.
func (s *StockReservation) Reserve(ctx context.Context, restaurantID kernel.RestaurantID, items []order.LineItem) (Reservation, error) {
	checked, err := s.Check(ctx, restaurantID, items)
	if err != nil {
		return Reservation{}, err
	}
	merged, total := checked.Items, checked.TotalPrice

	for i, it := range merged {
		applied, err := s.products.DecrementStock(ctx, restaurantID, it.ProductID(), it.Quantity())
		if err == nil && applied {
			continue
		}

		s.compensate(ctx, restaurantID, merged[:i])
		if err != nil {
			return Reservation{}, fmt.Errorf("decrement product %s: %w", it.ProductID(), err)
		}
		return Reservation{}, s.insufficient(ctx, restaurantID, it)
	}

	s.logger.DebugContext(ctx, "stock reserved", "restaurant_id", restaurantID.String(), "items", len(merged))
	return Reservation{Items: merged, TotalPrice: total}, nil
}

// Release puts items back into stock. It keeps going past individual failures and returns them joined.
func (s *StockReservation) Release(ctx context.Context, restaurantID kernel.RestaurantID, items []order.LineItem) error {
	var joined error
	for _, it := range items {
		if err := s.products.IncrementStock(ctx, restaurantID, it.ProductID(), it.Quantity()); err != nil {
			joined = errors.Join(joined, fmt.Errorf("release product %s: %w", it.ProductID(), err))
		}
	}
	if joined != nil {
		s.logger.ErrorContext(ctx, "stock release incomplete", "restaurant_id", restaurantID.String(), "error", joined)
	}
	return joined
}

// Restock adds quantity units of a product.
func (s *StockReservation) Restock(ctx context.Context, restaurantID kernel.RestaurantID, productID kernel.UUID, quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	return s.products.IncrementStock(ctx, restaurantID, productID, quantity)
}

func (s *StockReservation) compensate(ctx context.Context, restaurantID kernel.RestaurantID, taken []order.LineItem) {
	if len(taken) == 0 {
		return
	}
	// The caller may have given up; the stock still has to go back.
	_ = s.Release(context.WithoutCancel(ctx), restaurantID, taken)
}

func (s *StockReservation) insufficient(ctx context.Context, restaurantID kernel.RestaurantID, it order.LineItem) error {
	available := 0
	if p, err := s.products.Get(ctx, restaurantID, it.ProductID()); err == nil {
		available = p.Stock()
	}
	return errs.NewInsufficientStockError(it.ProductID().String(), it.Quantity(), available)
}
