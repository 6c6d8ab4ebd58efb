package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
	"orderflow/internal/pkg/pagination"
)

var ErrListOrderHistoryQueryIsNotConstructed = errors.New(
	"ListOrderHistoryQuery must be created via NewListOrderHistoryQuery constructor",
)

// ListOrderHistoryQuery reads the history of one order in sequence order, starting after the
// given sequence id. A page is restartable from its NextAfter.
type ListOrderHistoryQuery struct {
	restaurantID kernel.RestaurantID
	orderID      kernel.UUID
	after        int64
	limit        int

	guard guard.ConstructorGuard
}

func NewListOrderHistoryQuery(restaurantID kernel.RestaurantID, orderID kernel.UUID, after int64, limit int) (ListOrderHistoryQuery, error) {
	var afterErr error
	if after < 0 {
		afterErr = errs.NewValueIsOutOfRangeError("after", after, 0, "unbounded")
	}
	if err := errors.Join(restaurantID.Validate(), orderID.Validate(), afterErr); err != nil {
		return ListOrderHistoryQuery{}, err
	}
	return ListOrderHistoryQuery{
		restaurantID: restaurantID,
		orderID:      orderID,
		after:        after,
		limit:        pagination.ClampLimit(limit),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrListOrderHistoryQueryIsNotConstructed)
}

type HistoryEntryResponse struct {
	SequenceID   int64
	StageReached order.Status
	ActorRole    actor.Role
	ActorID      string
	Notes        string
	RecordedAt   time.Time
}

// ListOrderHistoryQueryResponse carries one page. NextAfter is zero on the last page.
type ListOrderHistoryQueryResponse struct {
	Entries   []HistoryEntryResponse
	NextAfter int64
}
