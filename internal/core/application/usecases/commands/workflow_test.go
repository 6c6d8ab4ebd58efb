package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_Validate(t *testing.T) {
	err := commands.Workflow{}.Validate()
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	for _, name := range []string{"ledger", "stock", "history", "callbacks", "orchestrator", "events", "clock", "logger"} {
		assert.Contains(t, err.Error(), name)
	}

	_, err = commands.NewCreateOrderCommandHandler(commands.Workflow{})
	require.Error(t, err)
}

func TestOrderLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	pizza := f.product(t, 1250, 2)
	soda := f.product(t, 300, 10)

	created, err := f.placeOrder(t.Context(), t, alice, item(t, pizza, 2), item(t, soda, 1))
	require.NoError(t, err)
	assert.Equal(t, order.PendingKitchenDecision, created.Status)
	assert.Equal(t, 0, f.stockOf(t, pizza))
	assert.Equal(t, 9, f.stockOf(t, soda))
	assert.Equal(t, int64(2800), f.order(t, created.OrderID).TotalPrice())

	steps := []struct {
		stage order.Stage
		by    actor.Actor
		want  order.Status
	}{
		{order.KitchenConfirm, carl, order.Cooking},
		{order.KitchenComplete, carl, order.ReadyForPickup},
		{order.DeliveryTake, dana, order.OutForDelivery},
		{order.DeliveryComplete, mia, order.Delivered},
	}
	for _, step := range steps {
		token := f.order(t, created.OrderID).PendingToken()
		require.False(t, token.IsZero(), step.stage.String())

		result, err := f.decide(t, token, step.by, order.Accept, step.stage)
		require.NoError(t, err, step.stage.String())
		assert.Equal(t, step.want, result.Status)
	}

	final := f.order(t, created.OrderID)
	assert.Equal(t, order.Delivered, final.Status())
	assert.True(t, final.PendingToken().IsZero())
	assert.Equal(t, []order.Status{
		order.Created, order.PendingKitchenDecision, order.Cooking,
		order.ReadyForPickup, order.OutForDelivery, order.Delivered,
	}, f.history(t, created.OrderID))

	_, running := f.flow.Current(kernel.DefaultRestaurant, created.OrderID)
	assert.False(t, running)
	assert.Len(t, f.events.Events(), 5)
	assert.Equal(t, 0, f.stockOf(t, pizza), "delivered orders keep their reservation")
}

func TestHistoryIsAValidPrefix(t *testing.T) {
	f := newFixture(t, nil)
	p := f.product(t, 500, 3)
	created, err := f.placeOrder(t.Context(), t, alice, item(t, p, 1))
	require.NoError(t, err)
	_, err = f.decide(t, f.order(t, created.OrderID).PendingToken(), carl, order.Accept, order.KitchenConfirm)
	require.NoError(t, err)

	var entries []history.Entry
	for e, err := range f.recorder.Iterate(t.Context(), kernel.DefaultRestaurant, created.OrderID, 1) {
		require.NoError(t, err)
		entries = append(entries, e)
	}
	lifecycle := []order.Status{
		order.Created, order.PendingKitchenDecision, order.Cooking,
		order.ReadyForPickup, order.OutForDelivery, order.Delivered,
	}
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, lifecycle[i], e.StageReached())
		assert.Equal(t, int64(i+1), e.SequenceID())
	}
}
