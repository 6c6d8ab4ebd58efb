package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelOrder(t *testing.T) {
	cancel := func(t *testing.T, f *fixture, id kernel.UUID, by actor.Actor) (commands.OrderResult, error) {
		t.Helper()
		cmd, err := commands.NewCancelOrderCommand(kernel.DefaultRestaurant, id, by, "changed my mind")
		require.NoError(t, err)
		return f.cancel.Handle(t.Context(), cmd)
	}

	t.Run("should cancel a pending order once", func(t *testing.T) {
		f := newFixture(t, nil)
		p := f.product(t, 500, 3)
		created, err := f.placeOrder(t.Context(), t, alice, item(t, p, 2))
		require.NoError(t, err)
		token := f.order(t, created.OrderID).PendingToken()

		result, err := cancel(t, f, created.OrderID, alice)
		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, result.Status)
		assert.Equal(t, 3, f.stockOf(t, p))

		_, err = f.decide(t, token, carl, order.Accept, order.KitchenConfirm)
		require.ErrorIs(t, err, errs.ErrTokenNotFound)
		_, running := f.flow.Current(kernel.DefaultRestaurant, created.OrderID)
		assert.False(t, running)

		_, err = cancel(t, f, created.OrderID, alice)
		require.NoError(t, err)
		assert.Equal(t, 3, f.stockOf(t, p))
		assert.Equal(t, []order.Status{order.Created, order.PendingKitchenDecision, order.Cancelled},
			f.history(t, created.OrderID))
	})

	t.Run("should refuse other customers", func(t *testing.T) {
		f := newFixture(t, nil)
		p := f.product(t, 500, 3)
		created, err := f.placeOrder(t.Context(), t, alice, item(t, p, 1))
		require.NoError(t, err)

		_, err = cancel(t, f, created.OrderID, bob)
		require.ErrorIs(t, err, errs.ErrAccessDenied)

		_, err = cancel(t, f, created.OrderID, mia)
		require.NoError(t, err)
	})

	t.Run("should refuse once the kitchen accepted", func(t *testing.T) {
		f := newFixture(t, nil)
		p := f.product(t, 500, 3)
		created, err := f.placeOrder(t.Context(), t, alice, item(t, p, 1))
		require.NoError(t, err)
		_, err = f.decide(t, f.order(t, created.OrderID).PendingToken(), carl, order.Accept, order.KitchenConfirm)
		require.NoError(t, err)

		_, err = cancel(t, f, created.OrderID, alice)
		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, 2, f.stockOf(t, p))
	})

	t.Run("should leave an order that is still being placed to its creator", func(t *testing.T) {
		f := newFixture(t, nil)
		p := f.product(t, 500, 3)
		placing, err := order.NewOrder(kernel.DefaultRestaurant, kernel.NewUUID(), "alice",
			[]order.LineItem{item(t, p, 1)}, 500, f.clock.Now())
		require.NoError(t, err)
		require.NoError(t, f.ledger.Orders().Add(t.Context(), placing))

		_, err = cancel(t, f, placing.ID(), alice)

		require.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, order.Created, f.order(t, placing.ID()).Status())
		assert.Empty(t, f.history(t, placing.ID()))
	})
}
