// Package actor describes who is acting on an order: an identifier and a role resolved by the
// Authorizer, never asserted by the caller.
package actor

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

type Role int

const (
	UnknownRole Role = iota
	Customer
	Cook
	Deliverer
	Manager
	Admin
)

var roleNames = map[Role]string{
	Customer:  "CUSTOMER",
	Cook:      "COOK",
	Deliverer: "DELIVERER",
	Manager:   "MANAGER",
	Admin:     "ADMIN",
}

// roleAliases also accepts the legacy Spanish role names still found in token tables.
var roleAliases = map[string]Role{
	"customer":   Customer,
	"cliente":    Customer,
	"cook":       Cook,
	"cocinero":   Cook,
	"deliverer":  Deliverer,
	"repartidor": Deliverer,
	"manager":    Manager,
	"gerente":    Manager,
	"admin":      Admin,
}

// ParseRole is case-insensitive and understands both English and legacy Spanish names.
func ParseRole(s string) (Role, error) {
	if r, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r, nil
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "UNKNOWN"
}

func (r Role) Validate() error {
	if _, ok := roleNames[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// IsStaff reports whether the role may act on any order, not only its own.
func (r Role) IsStaff() bool {
	return r == Manager || r == Admin
}

// Actor is an authenticated caller.
type Actor struct {
	id   string
	role Role
}

func NewActor(id string, role Role) (Actor, error) {
	if strings.TrimSpace(id) == "" {
		return Actor{}, errs.NewValueIsRequiredError("actorID")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

func (a Actor) ID() string {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) Validate() error {
	if a.id == "" {
		return errs.NewValueIsRequiredError("actorID")
	}
	return a.role.Validate()
}
