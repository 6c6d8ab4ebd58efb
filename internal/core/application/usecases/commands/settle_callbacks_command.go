package commands

import (
	"errors"
	"time"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
	"orderflow/internal/pkg/pagination"
)

var ErrSettleCallbacksCommandIsNotConstructed = errors.New(
	"SettleCallbacksCommand must be created via NewSettleCallbacksCommand constructor",
)

// SettleCallbacksCommand replays settlement for callbacks consumed more than grace ago and
// still not settled. It is issued by the settlement job.
type SettleCallbacksCommand struct {
	grace time.Duration
	batch int

	guard guard.ConstructorGuard
}

func NewSettleCallbacksCommand(grace time.Duration, batch int) (SettleCallbacksCommand, error) {
	if grace < 0 {
		return SettleCallbacksCommand{}, errs.NewValueIsOutOfRangeError("grace", grace, 0, "unbounded")
	}
	return SettleCallbacksCommand{
		grace: grace,
		batch: pagination.ClampLimit(batch),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c SettleCallbacksCommand) Validate() error {
	return c.guard.Validate(ErrSettleCallbacksCommandIsNotConstructed)
}

func (c SettleCallbacksCommand) Grace() time.Duration { return c.grace }
func (c SettleCallbacksCommand) Batch() int           { return c.batch }
