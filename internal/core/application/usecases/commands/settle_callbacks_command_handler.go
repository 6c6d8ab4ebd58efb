package commands

import (
	"context"

	"orderflow/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// SettlementReport counts the outcome of one settlement pass.
type SettlementReport struct {
	Settled int
	Failed  int
}

// SettleCallbacksCommandHandler finishes resolutions whose follow-up was interrupted, typically
// by an orchestrator outage. A failure on one callback does not stop the pass.
type SettleCallbacksCommandHandler struct {
	engine
}

func NewSettleCallbacksCommandHandler(w Workflow) (SettleCallbacksCommandHandler, error) {
	e, err := newEngine(w, "settle-callbacks")
	if err != nil {
		return SettleCallbacksCommandHandler{}, err
	}
	return SettleCallbacksCommandHandler{engine: e}, nil
}

func (h SettleCallbacksCommandHandler) Handle(ctx context.Context, cmd SettleCallbacksCommand) (report SettlementReport, err error) {
	if err := cmd.Validate(); err != nil {
		return SettlementReport{}, err
	}

	ctx, span := tracing.Start(ctx, "commands.SettleCallbacks")
	defer func() {
		span.SetAttributes(attribute.Int("settled", report.Settled), attribute.Int("failed", report.Failed))
		tracing.End(span, err)
	}()

	due, err := h.Callbacks.ListUnsettled(ctx, cmd.Grace(), cmd.Batch())
	if err != nil {
		return SettlementReport{}, err
	}

	for _, cb := range due {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if _, err := h.settle(ctx, cb); err != nil {
			report.Failed++
			h.logger.WarnContext(ctx, "settlement failed",
				"order_id", cb.OrderID().String(), "stage", cb.Stage().String(), "error", err)
			continue
		}
		report.Settled++
	}

	if report.Settled > 0 || report.Failed > 0 {
		h.logger.InfoContext(ctx, "settlement pass finished", "settled", report.Settled, "failed", report.Failed)
	}
	return report, nil
}
