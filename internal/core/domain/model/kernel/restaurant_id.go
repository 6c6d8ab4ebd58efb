package kernel

import (
	"strings"

	"orderflow/internal/pkg/errs"
)

const maxRestaurantIDLength = 64

// RestaurantID scopes orders and products. Single-restaurant callers may omit it and get
// DefaultRestaurant.
type RestaurantID struct {
	value string
}

var DefaultRestaurant = RestaurantID{value: "default"}

func NewRestaurantID(s string) (RestaurantID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RestaurantID{}, errs.NewValueIsRequiredError("restaurantID")
	}
	if len(s) > maxRestaurantIDLength {
		return RestaurantID{}, errs.NewValueIsOutOfRangeError("restaurantID length", len(s), 1, maxRestaurantIDLength)
	}
	return RestaurantID{value: s}, nil
}

// RestaurantIDOrDefault is NewRestaurantID with an empty input mapped to DefaultRestaurant.
func RestaurantIDOrDefault(s string) (RestaurantID, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultRestaurant, nil
	}
	return NewRestaurantID(s)
}

func (r RestaurantID) String() string {
	return r.value
}

func (r RestaurantID) IsEqual(other RestaurantID) bool {
	return r.value == other.value
}

func (r RestaurantID) Validate() error {
	if r.value == "" {
		return errs.NewValueIsRequiredError("restaurantID")
	}
	return nil
}
