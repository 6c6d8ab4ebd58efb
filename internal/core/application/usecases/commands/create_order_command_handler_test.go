package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"orderflow/internal/adapters/out/localflow"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	t.Run("should let only one of two orders take the last units", func(t *testing.T) {
		f := newFixture(t, nil)
		p := f.product(t, 500, 2)

		_, err := f.placeOrder(t.Context(), t, alice, item(t, p, 2))
		require.NoError(t, err)
		assert.Equal(t, 0, f.stockOf(t, p))

		_, err = f.placeOrder(t.Context(), t, bob, item(t, p, 1))
		require.ErrorIs(t, err, errs.ErrInsufficientStock)
	})

	t.Run("should never oversell under concurrent orders", func(t *testing.T) {
		f := newFixture(t, nil)
		p := f.product(t, 500, 3)

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			shortages int
		)
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.placeOrder(context.Background(), t, alice, item(t, p, 1))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, errs.ErrInsufficientStock):
					shortages++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 3, succeeded)
		assert.Equal(t, 7, shortages)
		assert.Equal(t, 0, f.stockOf(t, p))
	})

	t.Run("should refuse roles that do not order", func(t *testing.T) {
		f := newFixture(t, nil)
		p := f.product(t, 500, 3)

		_, err := f.placeOrder(t.Context(), t, carl, item(t, p, 1))
		require.ErrorIs(t, err, errs.ErrAccessDenied)
		assert.Equal(t, 3, f.stockOf(t, p))
	})

	t.Run("should reject unknown products", func(t *testing.T) {
		f := newFixture(t, nil)
		ghost, _ := order.NewLineItem(kernel.NewUUID(), 1)

		_, err := f.placeOrder(t.Context(), t, alice, ghost)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should refuse a taken order id without reserving", func(t *testing.T) {
		f := newFixture(t, nil)
		p := f.product(t, 500, 5)
		cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.DefaultRestaurant, alice, "", []order.LineItem{item(t, p, 2)})
		require.NoError(t, err)

		_, err = f.create.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Equal(t, 3, f.stockOf(t, p))

		_, err = f.create.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
		assert.Equal(t, 3, f.stockOf(t, p), "the second attempt must not hold stock")
		assert.Equal(t, order.PendingKitchenDecision, f.order(t, cmd.OrderID()).Status())
	})
}

func TestCreateOrder_OrchestratorUnavailable(t *testing.T) {
	orchestrator := new(MockOrchestrator)
	orchestrator.On("Start", mock.Anything, mock.AnythingOfType("ports.WorkflowInput")).
		Return(kernel.Token{}, errors.New("connection refused")).Once()

	f := newFixture(t, func(*localflow.Orchestrator) ports.Orchestrator { return orchestrator })
	p := f.product(t, 500, 4)

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.DefaultRestaurant, alice, "", []order.LineItem{item(t, p, 3)})
	require.NoError(t, err)

	_, err = f.create.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrTransport)

	o := f.order(t, cmd.OrderID())
	assert.Equal(t, order.Cancelled, o.Status())
	assert.True(t, o.StockReleased())
	assert.Equal(t, 4, f.stockOf(t, p))
	assert.Equal(t, []order.Status{order.Created, order.Cancelled}, f.history(t, cmd.OrderID()))
	orchestrator.AssertExpectations(t)
}

func TestCreateOrder_LedgerFailures(t *testing.T) {
	ledgerDown := errors.New("ledger unavailable")

	t.Run("should cancel and release when the creation entry cannot be recorded", func(t *testing.T) {
		f := newFixture(t, nil)
		p := f.product(t, 500, 4)
		f.hooks.beforeAppend = func(e history.Entry) error {
			if e.DedupeKey() == "created" {
				return ledgerDown
			}
			return nil
		}

		cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.DefaultRestaurant, alice, "", []order.LineItem{item(t, p, 3)})
		require.NoError(t, err)
		_, err = f.create.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, ledgerDown)
		o := f.order(t, cmd.OrderID())
		assert.Equal(t, order.Cancelled, o.Status())
		assert.True(t, o.StockReleased())
		assert.Equal(t, 4, f.stockOf(t, p))
		assert.Equal(t, []order.Status{order.Cancelled}, f.history(t, cmd.OrderID()))

		_, running := f.flow.Current(kernel.DefaultRestaurant, cmd.OrderID())
		assert.False(t, running, "the workflow must not start for an order that was never recorded")
	})

	t.Run("should cancel, release and withdraw when the pending order cannot be stored", func(t *testing.T) {
		f := newFixture(t, nil)
		p := f.product(t, 500, 4)
		var token kernel.Token
		f.hooks.beforeUpdate = func(o *order.Order) error {
			if o.Status() == order.PendingKitchenDecision && token.IsZero() {
				token = o.PendingToken()
				return ledgerDown
			}
			return nil
		}

		cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.DefaultRestaurant, alice, "", []order.LineItem{item(t, p, 3)})
		require.NoError(t, err)
		_, err = f.create.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, ledgerDown)
		require.False(t, token.IsZero())
		o := f.order(t, cmd.OrderID())
		assert.Equal(t, order.Cancelled, o.Status())
		assert.True(t, o.StockReleased())
		assert.Equal(t, 4, f.stockOf(t, p))
		assert.Equal(t, []order.Status{order.Created, order.PendingKitchenDecision, order.Cancelled},
			f.history(t, cmd.OrderID()))

		_, err = f.registry.Lookup(t.Context(), token)
		require.ErrorIs(t, err, errs.ErrTokenNotFound)
		_, running := f.flow.Current(kernel.DefaultRestaurant, cmd.OrderID())
		assert.False(t, running)
	})
}

func TestCreateOrder_PendingEntryPrecedesTheToken(t *testing.T) {
	f := newFixture(t, nil)
	p := f.product(t, 500, 3)

	var (
		attempted bool
		early     error
	)
	f.hooks.beforeAppend = func(e history.Entry) error {
		if attempted || e.StageReached() != order.PendingKitchenDecision {
			return nil
		}
		attempted = true

		// The workflow is already waiting on the token; a cook who got hold of it early must
		// not move the order before PENDING_KITCHEN_DECISION is recorded.
		token, running := f.flow.Current(e.RestaurantID(), e.OrderID())
		require.True(t, running)
		assert.True(t, f.order(t, e.OrderID()).PendingToken().IsZero())
		_, early = f.decide(t, token, carl, order.Accept, order.KitchenConfirm)
		return nil
	}

	created, err := f.placeOrder(t.Context(), t, alice, item(t, p, 1))
	require.NoError(t, err)
	require.True(t, attempted)
	require.ErrorIs(t, early, errs.ErrInvalidState)

	_, err = f.decide(t, f.order(t, created.OrderID).PendingToken(), carl, order.Accept, order.KitchenConfirm)
	require.NoError(t, err)
	assert.Equal(t, []order.Status{order.Created, order.PendingKitchenDecision, order.Cooking},
		f.history(t, created.OrderID))
}
