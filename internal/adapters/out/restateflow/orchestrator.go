// Package restateflow runs order workflows on Restate. The OrderWorkflow service is served by
// cmd/workflow; Orchestrator talks to it through the Restate ingress.
package restateflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	restateingress "github.com/restatedev/sdk-go/ingress"
)

var _ ports.Orchestrator = (*Orchestrator)(nil)

// ingress is the slice of the Restate ingress API the orchestrator uses.
type ingress interface {
	start(ctx context.Context, key string, in RunInput) error
	resolve(ctx context.Context, key string, step Step) (ResolveReply, error)
}

type ingressClient struct {
	client *restateingress.Client
}

func (c ingressClient) start(ctx context.Context, key string, in RunInput) error {
	_, err := restateingress.WorkflowSend[RunInput](c.client, WorkflowName, key, "Run").Send(ctx, in)
	return err
}

func (c ingressClient) resolve(ctx context.Context, key string, step Step) (ResolveReply, error) {
	return restateingress.Workflow[Step, ResolveReply](c.client, WorkflowName, key, "Resolve").Request(ctx, step)
}

type Orchestrator struct {
	ingress   ingress
	callbacks ports.CallbackRepository
	stepTTL   time.Duration
	logger    *slog.Logger
}

// NewOrchestrator returns an orchestrator calling the Restate ingress at ingressURL. Tokens are
// traced back to their order through callbacks.
func NewOrchestrator(ingressURL string, callbacks ports.CallbackRepository, stepTTL time.Duration, logger *slog.Logger) (*Orchestrator, error) {
	if ingressURL == "" {
		return nil, errs.NewValueIsRequiredError("RESTATE_INGRESS_URL")
	}
	return newOrchestrator(ingressClient{client: restateingress.NewClient(ingressURL)}, callbacks, stepTTL, logger)
}

func newOrchestrator(in ingress, callbacks ports.CallbackRepository, stepTTL time.Duration, logger *slog.Logger) (*Orchestrator, error) {
	if callbacks == nil {
		return nil, errs.NewValueIsRequiredError("callbacks")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	if stepTTL <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("stepTTL", stepTTL, "1ns", "unbounded")
	}
	return &Orchestrator{
		ingress:   in,
		callbacks: callbacks,
		stepTTL:   stepTTL,
		logger:    logger.With("component", "restateflow"),
	}, nil
}

// Start submits the execution of an order. The workflow key makes a repeated submission attach
// to the running execution, which keeps waiting on the first token it was given.
func (o *Orchestrator) Start(ctx context.Context, in ports.WorkflowInput) (kernel.Token, error) {
	if err := in.FirstToken.Validate(); err != nil {
		return kernel.Token{}, err
	}

	key := WorkflowKey(in.RestaurantID, in.OrderID)
	err := o.ingress.start(ctx, key, RunInput{FirstToken: in.FirstToken.String(), StepTTL: o.stepTTL})
	if err != nil {
		return kernel.Token{}, errs.NewTransportError("restate", err)
	}

	o.logger.DebugContext(ctx, "workflow submitted", "key", key)
	return in.FirstToken, nil
}

// Resume delivers payload to the step suspended on token.
func (o *Orchestrator) Resume(ctx context.Context, token kernel.Token, payload ports.ResumePayload) error {
	cb, err := o.callbacks.Get(ctx, token)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ports.ErrTokenInvalid
	}
	if err != nil {
		return err
	}

	key := WorkflowKey(cb.RestaurantID(), cb.OrderID())
	reply, err := o.ingress.resolve(ctx, key, StepFromPayload(token, payload))
	if err != nil {
		return errs.NewTransportError("restate", err)
	}

	switch reply.Outcome {
	case OutcomeAck:
		return nil
	case OutcomeExpired:
		return ports.ErrTokenExpired
	case OutcomeInvalid:
		return ports.ErrTokenInvalid
	default:
		return errs.NewTransportError("restate", errors.New("unexpected outcome "+reply.Outcome))
	}
}

// WorkflowKey identifies the execution of an order.
func WorkflowKey(restaurantID kernel.RestaurantID, orderID kernel.UUID) string {
	return restaurantID.String() + "/" + orderID.String()
}

func StepFromPayload(token kernel.Token, payload ports.ResumePayload) Step {
	step := Step{
		Token:     token.String(),
		Stage:     payload.Stage.String(),
		Cancelled: payload.Cancelled,
	}
	if !payload.Cancelled {
		step.Decision = payload.Decision.String()
		step.NextToken = payload.NextToken.String()
	}
	return step
}
