package order

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// Stage is one of the four human-gated steps of the workflow.
type Stage int

const (
	UnknownStage Stage = iota
	KitchenConfirm
	KitchenComplete
	DeliveryTake
	DeliveryComplete
)

type stageRule struct {
	name     string
	expected Status
	onAccept Status
	onReject Status
}

// stageTable is the fixed transition table. A zero onReject means the stage has no reject path.
var stageTable = map[Stage]stageRule{
	KitchenConfirm:   {name: "kitchen-confirm", expected: PendingKitchenDecision, onAccept: Cooking, onReject: Rejected},
	KitchenComplete:  {name: "kitchen-complete", expected: Cooking, onAccept: ReadyForPickup},
	DeliveryTake:     {name: "delivery-take", expected: ReadyForPickup, onAccept: OutForDelivery},
	DeliveryComplete: {name: "delivery-complete", expected: OutForDelivery, onAccept: Delivered},
}

// Stages lists the stages in workflow order.
func Stages() []Stage {
	return []Stage{KitchenConfirm, KitchenComplete, DeliveryTake, DeliveryComplete}
}

func ParseStage(s string) (Stage, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for st, rule := range stageTable {
		if rule.name == want {
			return st, nil
		}
	}
	return UnknownStage, errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%q is not a valid stage", s))
}

// StageAwaiting returns the stage whose decision an order in status s is waiting for.
func StageAwaiting(s Status) (Stage, bool) {
	for _, st := range Stages() {
		if stageTable[st].expected == s {
			return st, true
		}
	}
	return UnknownStage, false
}

func (s Stage) String() string {
	if rule, ok := stageTable[s]; ok {
		return rule.name
	}
	return "unknown"
}

func (s Stage) Validate() error {
	if _, ok := stageTable[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

// ExpectedStatus is the status an order must be in for this stage to be resolved.
func (s Stage) ExpectedStatus() Status {
	return stageTable[s].expected
}

// IsKitchen reports whether the stage belongs to kitchen staff.
func (s Stage) IsKitchen() bool {
	return s == KitchenConfirm || s == KitchenComplete
}

// AllowsReject reports whether REJECT is a valid decision at this stage.
func (s Stage) AllowsReject() bool {
	return stageTable[s].onReject != Unknown
}

// Outcome returns the status reached when decision is applied at this stage.
func (s Stage) Outcome(d Decision) (Status, error) {
	rule, ok := stageTable[s]
	if !ok {
		return Unknown, s.Validate()
	}
	switch d {
	case Accept:
		return rule.onAccept, nil
	case Reject:
		if rule.onReject == Unknown {
			return Unknown, errs.NewValueIsInvalidErrorWithCause("decision",
				fmt.Errorf("%s has no reject path", rule.name))
		}
		return rule.onReject, nil
	default:
		return Unknown, d.Validate()
	}
}
