package order

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	CREATED ──> PENDING_KITCHEN_DECISION ──┬──> COOKING ──> READY_FOR_PICKUP ──> OUT_FOR_DELIVERY ──> DELIVERED
//	   │                 │                 └──> REJECTED
//	   └─────────────────┴──> CANCELLED
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Created
	PendingKitchenDecision
	Cooking
	ReadyForPickup
	OutForDelivery
	Delivered
	Rejected
	Cancelled
)

var statusNames = map[Status]string{
	Created:                "CREATED",
	PendingKitchenDecision: "PENDING_KITCHEN_DECISION",
	Cooking:                "COOKING",
	ReadyForPickup:         "READY_FOR_PICKUP",
	OutForDelivery:         "OUT_FOR_DELIVERY",
	Delivered:              "DELIVERED",
	Rejected:               "REJECTED",
	Cancelled:              "CANCELLED",
}

// ParseStatus accepts the upper-case wire names.
func ParseStatus(s string) (Status, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for st, name := range statusNames {
		if name == want {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Created, PendingKitchenDecision, Cooking, ReadyForPickup, OutForDelivery, Delivered, Rejected, Cancelled}
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Status) IsTerminal() bool {
	return s == Delivered || s == Rejected || s == Cancelled
}

// IsAwaiting reports whether an order in this status is suspended on a callback token.
func (s Status) IsAwaiting() bool {
	switch s {
	case PendingKitchenDecision, Cooking, ReadyForPickup, OutForDelivery:
		return true
	default:
		return false
	}
}

// IsCancellable reports whether the kitchen has not committed to the order yet.
func (s Status) IsCancellable() bool {
	return s == Created || s == PendingKitchenDecision
}

// ReleasesStock reports whether reaching this status returns the reservation to stock.
func (s Status) ReleasesStock() bool {
	return s == Rejected || s == Cancelled
}
