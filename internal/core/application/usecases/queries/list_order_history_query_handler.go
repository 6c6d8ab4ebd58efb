package queries

import (
	"context"

	"orderflow/internal/core/application/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

type ListOrderHistoryQueryHandler struct {
	orders   ports.OrderRepository
	recorder *services.HistoryRecorder
}

func NewListOrderHistoryQueryHandler(ledger ports.Ledger, recorder *services.HistoryRecorder) (ListOrderHistoryQueryHandler, error) {
	if ledger == nil {
		return ListOrderHistoryQueryHandler{}, errs.NewValueIsRequiredError("ledger")
	}
	if recorder == nil {
		return ListOrderHistoryQueryHandler{}, errs.NewValueIsRequiredError("recorder")
	}
	return ListOrderHistoryQueryHandler{orders: ledger.Orders(), recorder: recorder}, nil
}

// Handle fails with ObjectNotFoundError for an unknown order rather than returning an empty page.
func (h ListOrderHistoryQueryHandler) Handle(ctx context.Context, query ListOrderHistoryQuery) (ListOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrderHistoryQueryResponse{}, err
	}

	if _, err := h.orders.Get(ctx, query.restaurantID, query.orderID); err != nil {
		return ListOrderHistoryQueryResponse{}, err
	}

	entries, next, err := h.recorder.List(ctx, query.restaurantID, query.orderID, query.after, query.limit)
	if err != nil {
		return ListOrderHistoryQueryResponse{}, err
	}

	resp := ListOrderHistoryQueryResponse{
		Entries:   make([]HistoryEntryResponse, 0, len(entries)),
		NextAfter: next,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, HistoryEntryResponse{
			SequenceID:   e.SequenceID(),
			StageReached: e.StageReached(),
			ActorRole:    e.Actor().Role(),
			ActorID:      e.Actor().ID(),
			Notes:        e.Notes(),
			RecordedAt:   e.RecordedAt(),
		})
	}
	return resp, nil
}
