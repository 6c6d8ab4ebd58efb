package ports

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

var (
	// ErrTokenExpired is returned by Resume when the orchestrator already timed the step out.
	ErrTokenExpired = errors.New("orchestrator: token expired")

	// ErrTokenInvalid is returned by Resume when the orchestrator does not know the token.
	ErrTokenInvalid = errors.New("orchestrator: token invalid")
)

// WorkflowInput starts one order execution. FirstToken is the token the execution suspends on
// while waiting for the kitchen.
type WorkflowInput struct {
	RestaurantID kernel.RestaurantID
	OrderID      kernel.UUID
	FirstToken   kernel.Token
}

// ResumePayload completes a suspended step. NextToken is empty when the step leads to a
// terminal status. Cancelled ends the execution without a decision.
type ResumePayload struct {
	Stage     order.Stage
	Decision  order.Decision
	NextToken kernel.Token
	Cancelled bool
}

// Orchestrator runs the durable multi-step workflow of an order.
type Orchestrator interface {
	// Start launches the execution and returns the token it suspended on.
	Start(ctx context.Context, in WorkflowInput) (kernel.Token, error)

	// Resume completes the step suspended on token. Resuming an already resumed step with the
	// same payload is acknowledged again.
	Resume(ctx context.Context, token kernel.Token, payload ResumePayload) error
}
