// Package callback models the pending-callback relation: one outstanding orchestrator step,
// identified by an opaque token and bound to an order and a stage.
package callback

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

var ErrCallbackIsNotConstructed = errors.New("Callback must be created via Issue")

// State of a callback record.
//
//	PENDING ──> CONSUMED ──> SETTLED
//	   ├──> EXPIRED
//	   └──> INVALIDATED
type State int

const (
	UnknownState State = iota
	Pending
	Consumed
	Settled
	Expired
	Invalidated
)

var stateNames = map[State]string{
	Pending:     "PENDING",
	Consumed:    "CONSUMED",
	Settled:     "SETTLED",
	Expired:     "EXPIRED",
	Invalidated: "INVALIDATED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func ParseState(s string) (State, error) {
	for st, name := range stateNames {
		if name == s {
			return st, nil
		}
	}
	return UnknownState, errs.NewValueIsInvalidErrorWithCause("callback state", fmt.Errorf("%q is not a valid state", s))
}

// Resolution is the decision recorded when a callback is consumed. NextToken is the token the
// follow-up stage will suspend on; it is fixed at consume time so replays reuse it.
type Resolution struct {
	decision  order.Decision
	by        actor.Actor
	notes     string
	nextToken kernel.Token
}

func NewResolution(decision order.Decision, by actor.Actor, notes string, nextToken kernel.Token) (Resolution, error) {
	if err := errors.Join(decision.Validate(), by.Validate()); err != nil {
		return Resolution{}, err
	}
	return Resolution{decision: decision, by: by, notes: notes, nextToken: nextToken}, nil
}

func (r Resolution) Decision() order.Decision { return r.decision }
func (r Resolution) Actor() actor.Actor       { return r.by }
func (r Resolution) Notes() string            { return r.notes }
func (r Resolution) NextToken() kernel.Token  { return r.nextToken }

// Callback is one outstanding (or past) suspended step.
type Callback struct {
	token        kernel.Token
	restaurantID kernel.RestaurantID
	orderID      kernel.UUID
	stage        order.Stage
	state        State
	issuedAt     time.Time
	expiresAt    time.Time
	consumedAt   time.Time
	settledAt    time.Time
	resolution   *Resolution

	isConstructed bool
}

// Issue creates a PENDING callback valid for ttl.
func Issue(token kernel.Token, restaurantID kernel.RestaurantID, orderID kernel.UUID, stage order.Stage, now time.Time, ttl time.Duration) (*Callback, error) {
	if err := errors.Join(token.Validate(), restaurantID.Validate(), orderID.Validate(), stage.Validate()); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("ttl", fmt.Errorf("%s is not positive", ttl))
	}
	return &Callback{
		token:         token,
		restaurantID:  restaurantID,
		orderID:       orderID,
		stage:         stage,
		state:         Pending,
		issuedAt:      now.UTC(),
		expiresAt:     now.UTC().Add(ttl),
		isConstructed: true,
	}, nil
}

// RestoreCallback rebuilds a stored record. resolution is nil for callbacks never consumed.
func RestoreCallback(
	token kernel.Token,
	restaurantID kernel.RestaurantID,
	orderID kernel.UUID,
	stage order.Stage,
	state State,
	issuedAt, expiresAt, consumedAt, settledAt time.Time,
	resolution *Resolution,
) (*Callback, error) {
	if err := errors.Join(token.Validate(), restaurantID.Validate(), orderID.Validate(), stage.Validate()); err != nil {
		return nil, err
	}
	if _, ok := stateNames[state]; !ok {
		return nil, errs.NewValueIsInvalidError("callback state")
	}
	if (state == Consumed || state == Settled) && resolution == nil {
		return nil, errs.NewInvalidStateError("callback", state.String()+" without resolution", "")
	}
	return &Callback{
		token:         token,
		restaurantID:  restaurantID,
		orderID:       orderID,
		stage:         stage,
		state:         state,
		issuedAt:      issuedAt.UTC(),
		expiresAt:     expiresAt.UTC(),
		consumedAt:    consumedAt.UTC(),
		settledAt:     settledAt.UTC(),
		resolution:    resolution,
		isConstructed: true,
	}, nil
}

func (c *Callback) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCallbackIsNotConstructed
	}
	return nil
}

func (c *Callback) Token() kernel.Token               { return c.token }
func (c *Callback) RestaurantID() kernel.RestaurantID { return c.restaurantID }
func (c *Callback) OrderID() kernel.UUID              { return c.orderID }
func (c *Callback) Stage() order.Stage                { return c.stage }
func (c *Callback) State() State                      { return c.state }
func (c *Callback) IssuedAt() time.Time               { return c.issuedAt }
func (c *Callback) ExpiresAt() time.Time              { return c.expiresAt }
func (c *Callback) ConsumedAt() time.Time             { return c.consumedAt }
func (c *Callback) SettledAt() time.Time              { return c.settledAt }

// Resolution returns the recorded decision, or false when the callback was never consumed.
func (c *Callback) Resolution() (Resolution, bool) {
	if c.resolution == nil {
		return Resolution{}, false
	}
	return *c.resolution, true
}

func (c *Callback) IsExpired(now time.Time) bool {
	return !now.Before(c.expiresAt)
}

// Unavailable returns a TokenNotFoundError when the callback can no longer be resolved at now.
// Expired, consumed and unknown tokens are indistinguishable to callers.
func (c *Callback) Unavailable(now time.Time) error {
	switch {
	case c.state == Pending && !c.IsExpired(now):
		return nil
	case c.state == Pending, c.state == Expired:
		return errs.NewTokenNotFoundError("callback expired")
	case c.state == Invalidated:
		return errs.NewTokenNotFoundError("callback invalidated")
	default:
		return errs.NewTokenNotFoundError("callback already consumed")
	}
}

// Consume records res and moves a resolvable callback to CONSUMED.
func (c *Callback) Consume(res Resolution, now time.Time) error {
	if err := c.Unavailable(now); err != nil {
		return err
	}
	c.state = Consumed
	c.consumedAt = now.UTC()
	c.resolution = &res
	return nil
}

// Settle marks the follow-up work of a consumed callback as done. Settling twice is a no-op.
func (c *Callback) Settle(now time.Time) error {
	switch c.state {
	case Settled:
		return nil
	case Consumed:
		c.state = Settled
		c.settledAt = now.UTC()
		return nil
	default:
		return errs.NewInvalidStateError("callback", c.state.String(), Consumed.String())
	}
}

// Invalidate withdraws a pending callback, e.g. when its order is cancelled.
func (c *Callback) Invalidate() error {
	if c.state == Invalidated {
		return nil
	}
	if c.state != Pending {
		return errs.NewInvalidStateError("callback", c.state.String(), Pending.String())
	}
	c.state = Invalidated
	return nil
}

// Expire marks a pending callback whose deadline has passed.
func (c *Callback) Expire(now time.Time) error {
	if c.state != Pending || !c.IsExpired(now) {
		return errs.NewInvalidStateError("callback", c.state.String(), "PENDING past its deadline")
	}
	c.state = Expired
	return nil
}
