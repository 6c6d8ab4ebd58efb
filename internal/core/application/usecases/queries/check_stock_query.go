package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCheckStockQueryIsNotConstructed = errors.New(
	"CheckStockQuery must be created via NewCheckStockQuery constructor",
)

// CheckStockQuery asks whether a batch of line items could be reserved right now.
type CheckStockQuery struct {
	restaurantID kernel.RestaurantID
	lineItems    []order.LineItem

	guard guard.ConstructorGuard
}

func NewCheckStockQuery(restaurantID kernel.RestaurantID, lineItems []order.LineItem) (CheckStockQuery, error) {
	var itemsErr error
	if len(lineItems) == 0 {
		itemsErr = errs.NewValueIsRequiredError("lineItems")
	}
	if err := errors.Join(restaurantID.Validate(), itemsErr); err != nil {
		return CheckStockQuery{}, err
	}
	return CheckStockQuery{
		restaurantID: restaurantID,
		lineItems:    append([]order.LineItem(nil), lineItems...),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q CheckStockQuery) Validate() error {
	return q.guard.Validate(ErrCheckStockQueryIsNotConstructed)
}

// ShortageResponse names the first product that could not be covered.
type ShortageResponse struct {
	ProductID string
	Requested int
	Available int
}

// CheckStockQueryResponse carries the merged items and their price when Available is true,
// and the shortage otherwise. The answer is advisory: nothing is held.
type CheckStockQueryResponse struct {
	Available  bool
	LineItems  []LineItemResponse
	TotalPrice int64
	Shortage   *ShortageResponse
}
