package restateflow

import (
	"fmt"
	"time"

	restate "github.com/restatedev/sdk-go"
)

// WorkflowName is the name the workflow is registered and called under.
const WorkflowName = "OrderWorkflow"

const (
	stateCurrent  = "current"
	stateFinished = "finished"
	resumedPrefix = "resumed/"
	expiredPrefix = "expired/"
	promisePrefix = "step/"
)

// Reply outcomes of the Resolve handler.
const (
	OutcomeAck     = "ACK"
	OutcomeExpired = "EXPIRED"
	OutcomeInvalid = "INVALID"
)

// RunInput starts one execution. The workflow key is "<restaurant>/<order>".
type RunInput struct {
	FirstToken string        `json:"first_token"`
	StepTTL    time.Duration `json:"step_ttl"`
}

// Step is what a stage decision delivers to the suspended execution.
type Step struct {
	Token     string `json:"token"`
	Stage     string `json:"stage"`
	Decision  string `json:"decision,omitempty"`
	NextToken string `json:"next_token,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

// Finishes reports whether the execution ends after step.
func (s Step) Finishes() bool {
	return s.Cancelled || s.NextToken == ""
}

type ResolveReply struct {
	Outcome string `json:"outcome"`
}

// RunResult is what a finished execution returns.
type RunResult struct {
	Status    string `json:"status"`
	LastToken string `json:"last_token"`
	Steps     int    `json:"steps"`
}

// OrderWorkflow suspends on one durable promise per callback token. Every suspension races a
// timer of StepTTL; when the timer wins the execution ends and the token is remembered as
// expired.
type OrderWorkflow struct{}

func (OrderWorkflow) Run(ctx restate.WorkflowContext, in RunInput) (RunResult, error) {
	if in.FirstToken == "" {
		return RunResult{}, restate.TerminalError(fmt.Errorf("first token is required"), 400)
	}
	if in.StepTTL <= 0 {
		return RunResult{}, restate.TerminalError(fmt.Errorf("step ttl must be positive"), 400)
	}

	key := restate.Key(ctx)
	token := in.FirstToken
	for steps := 0; ; steps++ {
		restate.Set(ctx, stateCurrent, token)
		ctx.Log().Info("order workflow suspended", "key", key, "steps", steps)

		promise := restate.Promise[Step](ctx, promisePrefix+token)
		timer := restate.After(ctx, in.StepTTL)

		winner, err := restate.WaitFirst(ctx, promise, timer)
		if err != nil {
			return RunResult{}, fmt.Errorf("wait for step: %w", err)
		}

		if winner != promise {
			restate.Set(ctx, expiredPrefix+token, true)
			restate.Set(ctx, stateFinished, true)
			ctx.Log().Warn("order workflow step timed out", "key", key, "ttl", in.StepTTL)
			return RunResult{Status: OutcomeExpired, LastToken: token, Steps: steps}, nil
		}

		step, err := promise.Result()
		if err != nil {
			return RunResult{}, fmt.Errorf("read step: %w", err)
		}
		restate.Set(ctx, resumedPrefix+token, step)

		if step.Finishes() {
			restate.Set(ctx, stateFinished, true)
			status := "COMPLETED"
			if step.Cancelled {
				status = "CANCELLED"
			}
			ctx.Log().Info("order workflow finished", "key", key, "status", status)
			return RunResult{Status: status, LastToken: token, Steps: steps + 1}, nil
		}
		token = step.NextToken
	}
}

// Resolve completes the step suspended on step.Token.
func (OrderWorkflow) Resolve(ctx restate.WorkflowSharedContext, step Step) (ResolveReply, error) {
	snap, err := readSnapshot(ctx, step.Token)
	if err != nil {
		return ResolveReply{}, err
	}

	outcome := judge(snap, step)
	if outcome != OutcomeAck || snap.resumed != nil {
		return ResolveReply{Outcome: outcome}, nil
	}

	if err := restate.Promise[Step](ctx, promisePrefix+step.Token).Resolve(step); err != nil {
		// A concurrent Resolve completed the promise first.
		ctx.Log().Warn("order workflow step already completed", "key", restate.Key(ctx), "error", err)
		return ResolveReply{Outcome: OutcomeInvalid}, nil
	}
	return ResolveReply{Outcome: OutcomeAck}, nil
}

// snapshot is the part of the execution state Resolve decides on.
type snapshot struct {
	current  string
	finished bool
	expired  bool
	resumed  *Step
}

func readSnapshot(ctx restate.WorkflowSharedContext, token string) (snapshot, error) {
	var (
		snap snapshot
		err  error
	)
	if snap.current, err = restate.Get[string](ctx, stateCurrent); err != nil {
		return snapshot{}, err
	}
	if snap.finished, err = restate.Get[bool](ctx, stateFinished); err != nil {
		return snapshot{}, err
	}
	if snap.expired, err = restate.Get[bool](ctx, expiredPrefix+token); err != nil {
		return snapshot{}, err
	}
	if snap.resumed, err = restate.Get[*Step](ctx, resumedPrefix+token); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// judge decides the reply for step. An execution that has not written any state yet accepts
// the step: its promise can be completed before Run awaits it.
func judge(snap snapshot, step Step) string {
	switch {
	case step.Token == "":
		return OutcomeInvalid
	case snap.resumed != nil:
		if *snap.resumed == step {
			return OutcomeAck
		}
		return OutcomeInvalid
	case snap.expired:
		return OutcomeExpired
	case snap.finished:
		return OutcomeInvalid
	case snap.current != "" && snap.current != step.Token:
		return OutcomeInvalid
	default:
		return OutcomeAck
	}
}
