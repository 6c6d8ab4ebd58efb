package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
	"orderflow/internal/pkg/pagination"
)

var ErrListProductsQueryIsNotConstructed = errors.New(
	"ListProductsQuery must be created via NewListProductsQuery constructor",
)

type ListProductsQuery struct {
	restaurantID kernel.RestaurantID
	cursor       string
	limit        int

	guard guard.ConstructorGuard
}

func NewListProductsQuery(restaurantID kernel.RestaurantID, cursor string, limit int) (ListProductsQuery, error) {
	_, _, cursorErr := pagination.Decode(cursor)
	if err := errors.Join(restaurantID.Validate(), cursorErr); err != nil {
		return ListProductsQuery{}, err
	}
	return ListProductsQuery{
		restaurantID: restaurantID,
		cursor:       cursor,
		limit:        pagination.ClampLimit(limit),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q ListProductsQuery) Validate() error {
	return q.guard.Validate(ErrListProductsQueryIsNotConstructed)
}

type ProductResponse struct {
	ID        kernel.UUID
	Name      string
	UnitPrice int64
	Stock     int
	CreatedAt time.Time
}

type ListProductsQueryResponse struct {
	Products   []ProductResponse
	NextCursor string
}
