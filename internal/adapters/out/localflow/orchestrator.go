// Package localflow runs order workflows inside the process. It keeps the same contract as the
// durable orchestrator but loses every execution on restart, so it serves development and tests.
package localflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
)

var _ ports.Orchestrator = (*Orchestrator)(nil)

type execution struct {
	restaurantID kernel.RestaurantID
	orderID      kernel.UUID
	first        kernel.Token
	current      kernel.Token
	suspendedAt  time.Time
	resumed      map[kernel.Token]ports.ResumePayload
	finished     bool
}

type Orchestrator struct {
	mu         sync.Mutex
	executions map[string]*execution
	byToken    map[kernel.Token]*execution
	clock      clock.Clock
	stepTTL    time.Duration
	logger     *slog.Logger
}

// NewOrchestrator returns an orchestrator whose steps time out after stepTTL.
func NewOrchestrator(clk clock.Clock, stepTTL time.Duration, logger *slog.Logger) (*Orchestrator, error) {
	if clk == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	if stepTTL <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("stepTTL", stepTTL, "1ns", "unbounded")
	}
	return &Orchestrator{
		executions: make(map[string]*execution),
		byToken:    make(map[kernel.Token]*execution),
		clock:      clk,
		stepTTL:    stepTTL,
		logger:     logger.With("component", "localflow"),
	}, nil
}

// Start suspends a new execution on in.FirstToken. Starting an order twice returns the token
// the existing execution first suspended on.
func (o *Orchestrator) Start(ctx context.Context, in ports.WorkflowInput) (kernel.Token, error) {
	if err := ctx.Err(); err != nil {
		return kernel.Token{}, err
	}
	if err := in.FirstToken.Validate(); err != nil {
		return kernel.Token{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	key := executionKey(in.RestaurantID, in.OrderID)
	if exe, ok := o.executions[key]; ok {
		return exe.first, nil
	}

	exe := &execution{
		restaurantID: in.RestaurantID,
		orderID:      in.OrderID,
		first:        in.FirstToken,
		current:      in.FirstToken,
		suspendedAt:  o.clock.Now(),
		resumed:      make(map[kernel.Token]ports.ResumePayload),
	}
	o.executions[key] = exe
	o.byToken[in.FirstToken] = exe

	o.logger.DebugContext(ctx, "workflow started", "order_id", in.OrderID.String())
	return in.FirstToken, nil
}

// Resume completes the step suspended on token.
func (o *Orchestrator) Resume(ctx context.Context, token kernel.Token, payload ports.ResumePayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	exe, ok := o.byToken[token]
	if !ok {
		return ports.ErrTokenInvalid
	}
	if previous, done := exe.resumed[token]; done {
		if previous == payload {
			return nil
		}
		return ports.ErrTokenInvalid
	}
	if exe.finished || !exe.current.IsEqual(token) {
		return ports.ErrTokenInvalid
	}
	if !o.clock.Now().Before(exe.suspendedAt.Add(o.stepTTL)) {
		exe.finished = true
		return ports.ErrTokenExpired
	}

	exe.resumed[token] = payload
	if payload.Cancelled || payload.NextToken.IsZero() {
		exe.finished = true
		o.logger.DebugContext(ctx, "workflow finished",
			"order_id", exe.orderID.String(), "cancelled", payload.Cancelled)
		return nil
	}

	exe.current = payload.NextToken
	exe.suspendedAt = o.clock.Now()
	o.byToken[payload.NextToken] = exe
	o.logger.DebugContext(ctx, "workflow suspended",
		"order_id", exe.orderID.String(), "after", payload.Stage.String())
	return nil
}

// Current returns the token the execution of an order waits on, if it is still running.
func (o *Orchestrator) Current(restaurantID kernel.RestaurantID, orderID kernel.UUID) (kernel.Token, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	exe, ok := o.executions[executionKey(restaurantID, orderID)]
	if !ok || exe.finished {
		return kernel.Token{}, false
	}
	return exe.current, true
}

func executionKey(restaurantID kernel.RestaurantID, orderID kernel.UUID) string {
	return restaurantID.String() + "/" + orderID.String()
}
