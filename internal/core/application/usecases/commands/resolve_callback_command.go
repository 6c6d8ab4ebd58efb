package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrResolveCallbackCommandIsNotConstructed = errors.New(
	"ResolveCallbackCommand must be created via NewResolveCallbackCommand constructor",
)

// ResolveCallbackCommand answers one suspended stage of an order. requestedStage is the stage
// the caller meant to resolve (the endpoint it called); UnknownStage means "whatever stage the
// token belongs to".
type ResolveCallbackCommand struct { //nolint:recvcheck //using for validation
	token          kernel.Token
	by             actor.Actor
	decision       order.Decision
	notes          string
	requestedStage order.Stage

	guard guard.ConstructorGuard
}

func NewResolveCallbackCommand(
	token kernel.Token,
	by actor.Actor,
	decision order.Decision,
	notes string,
	requestedStage order.Stage,
) (ResolveCallbackCommand, error) {
	cmd := ResolveCallbackCommand{
		guard:          guard.NewConstructorGuard(),
		requestedStage: requestedStage,
	}

	if err := errors.Join(
		cmd.setToken(token),
		cmd.setActor(by),
		cmd.setDecision(decision),
		cmd.setNotes(notes),
	); err != nil {
		return ResolveCallbackCommand{}, err
	}

	return cmd, nil
}

func (c ResolveCallbackCommand) Validate() error {
	return c.guard.Validate(ErrResolveCallbackCommandIsNotConstructed)
}

func (c ResolveCallbackCommand) Token() kernel.Token         { return c.token }
func (c ResolveCallbackCommand) Actor() actor.Actor          { return c.by }
func (c ResolveCallbackCommand) Decision() order.Decision    { return c.decision }
func (c ResolveCallbackCommand) Notes() string               { return c.notes }
func (c ResolveCallbackCommand) RequestedStage() order.Stage { return c.requestedStage }

func (c *ResolveCallbackCommand) setToken(token kernel.Token) error {
	if err := token.Validate(); err != nil {
		return err
	}
	c.token = token
	return nil
}

func (c *ResolveCallbackCommand) setActor(by actor.Actor) error {
	if err := by.Validate(); err != nil {
		return err
	}
	c.by = by
	return nil
}

func (c *ResolveCallbackCommand) setDecision(d order.Decision) error {
	if err := d.Validate(); err != nil {
		return err
	}
	c.decision = d
	return nil
}

func (c *ResolveCallbackCommand) setNotes(notes string) error {
	if len(notes) > history.MaxNotesLength {
		return errs.NewValueIsOutOfRangeError("notes", len(notes), 0, history.MaxNotesLength)
	}
	c.notes = notes
	return nil
}
