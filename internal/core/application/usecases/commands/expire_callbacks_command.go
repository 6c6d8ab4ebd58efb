package commands

import (
	"errors"

	"orderflow/internal/pkg/guard"
)

var ErrExpireCallbacksCommandIsNotConstructed = errors.New(
	"ExpireCallbacksCommand must be created via NewExpireCallbacksCommand constructor",
)

// ExpireCallbacksCommand marks every pending callback past its deadline as EXPIRED.
type ExpireCallbacksCommand struct {
	guard guard.ConstructorGuard
}

func NewExpireCallbacksCommand() ExpireCallbacksCommand {
	return ExpireCallbacksCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c ExpireCallbacksCommand) Validate() error {
	return c.guard.Validate(ErrExpireCallbacksCommandIsNotConstructed)
}
