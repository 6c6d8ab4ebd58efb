package order

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

type Decision int

const (
	UnknownDecision Decision = iota
	Accept
	Reject
)

func ParseDecision(s string) (Decision, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACCEPT":
		return Accept, nil
	case "REJECT":
		return Reject, nil
	default:
		return UnknownDecision, errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%q is not ACCEPT or REJECT", s))
	}
}

func (d Decision) String() string {
	switch d {
	case Accept:
		return "ACCEPT"
	case Reject:
		return "REJECT"
	default:
		return "UNKNOWN"
	}
}

func (d Decision) Validate() error {
	if d != Accept && d != Reject {
		return errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%d is not a valid decision", d))
	}
	return nil
}
