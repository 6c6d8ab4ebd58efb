package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

const maxCustomerRefLength = 128

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrResolutionAlreadyApplied is returned by Resolve when the token was the last one applied.
	// Callers replaying a settlement treat it as success.
	ErrResolutionAlreadyApplied = errors.New("resolution already applied")

	// ErrStockAlreadyReleased is returned by MarkStockReleased on the second call.
	ErrStockAlreadyReleased = errors.New("stock already released")
)

// Order is the aggregate root of one customer order within a restaurant.
//
// Order follows these invariants:
//   - Identity is the (restaurantID, id) pair
//   - At least one line item, each product appearing once
//   - pendingToken is set if and only if the status is awaiting a decision
//   - lastToken is the token of the most recently applied resolution
//   - version increases by one on every persisted change
type Order struct {
	restaurantID kernel.RestaurantID
	id           kernel.UUID
	customerRef  string
	lineItems    []LineItem

	// totalPrice is in minor units, fixed at creation
	totalPrice int64

	status        Status
	pendingToken  kernel.Token
	lastToken     kernel.Token
	stockReleased bool
	version       int64
	createdAt     time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewOrder creates an order in CREATED status. Duplicate products in items are merged.
//
// Example:
//
//	item, _ := order.NewLineItem(productID, 2)
//	o, err := order.NewOrder(restaurantID, kernel.NewUUID(), "customer-42", []order.LineItem{item}, 1800, time.Now())
func NewOrder(
	restaurantID kernel.RestaurantID,
	id kernel.UUID,
	customerRef string,
	items []LineItem,
	totalPrice int64,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Created,
		version:       1,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setRestaurantID(restaurantID),
		o.setID(id),
		o.setCustomerRef(customerRef),
		o.setLineItems(items),
		o.setTotalPrice(totalPrice),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order read from storage. It enforces the same invariants as NewOrder
// plus the token/status pairing.
func RestoreOrder(
	restaurantID kernel.RestaurantID,
	id kernel.UUID,
	customerRef string,
	items []LineItem,
	totalPrice int64,
	status Status,
	pendingToken kernel.Token,
	lastToken kernel.Token,
	stockReleased bool,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        status,
		pendingToken:  pendingToken,
		lastToken:     lastToken,
		stockReleased: stockReleased,
		version:       version,
		createdAt:     createdAt.UTC(),
		updatedAt:     updatedAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setRestaurantID(restaurantID),
		o.setID(id),
		o.setCustomerRef(customerRef),
		o.setLineItems(items),
		o.setTotalPrice(totalPrice),
		status.Validate(),
		o.checkTokenInvariant(),
	); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewValueIsOutOfRangeError("version", version, 1, "unbounded")
	}

	return o, nil
}

// Validate ensures the Order was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id) && o.restaurantID.IsEqual(other.restaurantID)
}

func (o *Order) RestaurantID() kernel.RestaurantID { return o.restaurantID }
func (o *Order) ID() kernel.UUID                   { return o.id }
func (o *Order) CustomerRef() string               { return o.customerRef }
func (o *Order) TotalPrice() int64                 { return o.totalPrice }
func (o *Order) Status() Status                    { return o.status }
func (o *Order) PendingToken() kernel.Token        { return o.pendingToken }
func (o *Order) LastToken() kernel.Token           { return o.lastToken }
func (o *Order) StockReleased() bool               { return o.stockReleased }
func (o *Order) Version() int64                    { return o.version }
func (o *Order) CreatedAt() time.Time              { return o.createdAt }
func (o *Order) UpdatedAt() time.Time              { return o.updatedAt }

// LineItems returns a copy of the order's line items.
func (o *Order) LineItems() []LineItem {
	items := make([]LineItem, len(o.lineItems))
	copy(items, o.lineItems)
	return items
}

// IsOwnedBy reports whether customerRef placed the order.
func (o *Order) IsOwnedBy(customerRef string) bool {
	return customerRef != "" && o.customerRef == customerRef
}

// AwaitKitchenDecision moves a CREATED order to PENDING_KITCHEN_DECISION once the orchestrator
// has suspended on token.
func (o *Order) AwaitKitchenDecision(token kernel.Token, now time.Time) error {
	if err := token.Validate(); err != nil {
		return err
	}
	if o.status != Created {
		return errs.NewInvalidStateError("order", o.status.String(), Created.String())
	}

	o.status = PendingKitchenDecision
	o.pendingToken = token
	o.touch(now)
	return nil
}

// Resolve applies decision at stage, consuming token. When the new status awaits a further
// decision nextToken becomes the pending token.
//
// Resolve returns ErrResolutionAlreadyApplied, leaving the order untouched, when token is the
// last token applied, so a replayed settlement is harmless.
func (o *Order) Resolve(token kernel.Token, stage Stage, decision Decision, nextToken kernel.Token, now time.Time) error {
	if err := token.Validate(); err != nil {
		return err
	}
	if !o.lastToken.IsZero() && o.lastToken.IsEqual(token) {
		return ErrResolutionAlreadyApplied
	}
	if o.status != stage.ExpectedStatus() {
		return errs.NewInvalidStateError("order", o.status.String(), stage.ExpectedStatus().String())
	}
	if !o.pendingToken.IsEqual(token) {
		return errs.NewInvalidStateError("order token", "superseded", "the pending token")
	}

	next, err := stage.Outcome(decision)
	if err != nil {
		return err
	}
	if next.IsAwaiting() {
		if err := nextToken.Validate(); err != nil {
			return fmt.Errorf("%s requires a next token: %w", next, err)
		}
		o.pendingToken = nextToken
	} else {
		o.pendingToken = kernel.Token{}
	}

	o.status = next
	o.lastToken = token
	o.touch(now)
	return nil
}

// Cancel moves an order that the kitchen has not accepted yet to CANCELLED.
func (o *Order) Cancel(now time.Time) error {
	if !o.status.IsCancellable() {
		return errs.NewInvalidStateError("order", o.status.String(), "CREATED or PENDING_KITCHEN_DECISION")
	}

	o.status = Cancelled
	o.pendingToken = kernel.Token{}
	o.touch(now)
	return nil
}

// MarkStockReleased records that the reservation went back to stock. It must be persisted before
// the stock increments so that a retry cannot release twice.
func (o *Order) MarkStockReleased(now time.Time) error {
	if !o.status.ReleasesStock() {
		return errs.NewInvalidStateError("order", o.status.String(), "REJECTED or CANCELLED")
	}
	if o.stockReleased {
		return ErrStockAlreadyReleased
	}

	o.stockReleased = true
	o.touch(now)
	return nil
}

// NeedsStockRelease reports whether the order is terminal without a reservation and still holds it.
func (o *Order) NeedsStockRelease() bool {
	return o.status.ReleasesStock() && !o.stockReleased
}

// AdvanceVersion is called by repositories after a successful conditional write.
func (o *Order) AdvanceVersion() {
	o.version++
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now.UTC()
}

func (o *Order) checkTokenInvariant() error {
	if o.status.IsAwaiting() && o.pendingToken.IsZero() {
		return errs.NewInvalidStateError("order", o.status.String()+" without pending token", "")
	}
	if !o.status.IsAwaiting() && !o.pendingToken.IsZero() {
		return errs.NewInvalidStateError("order", o.status.String()+" with pending token", "")
	}
	return nil
}

func (o *Order) setRestaurantID(id kernel.RestaurantID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return errs.NewValueIsRequiredError("customerRef")
	}
	if len(ref) > maxCustomerRefLength {
		return errs.NewValueIsOutOfRangeError("customerRef length", len(ref), 1, maxCustomerRefLength)
	}
	o.customerRef = ref
	return nil
}

func (o *Order) setLineItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}
	for i, it := range items {
		if err := it.productID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("lineItems[%d]", i), err)
		}
		if it.quantity < 1 {
			return errs.NewValueIsOutOfRangeError(fmt.Sprintf("lineItems[%d].quantity", i), it.quantity, 1, MaxQuantityPerItem)
		}
	}
	merged, err := MergeLineItems(items)
	if err != nil {
		return err
	}
	o.lineItems = merged
	return nil
}

func (o *Order) setTotalPrice(total int64) error {
	if total < 0 {
		return errs.NewValueIsInvalidErrorWithCause("totalPrice", fmt.Errorf("%d is negative", total))
	}
	o.totalPrice = total
	return nil
}
