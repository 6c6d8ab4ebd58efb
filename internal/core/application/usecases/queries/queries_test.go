package queries_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/adapters/out/memory"
	"orderflow/internal/core/application/services"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mustActor(t *testing.T, id string, role actor.Role) actor.Actor {
	t.Helper()
	a, err := actor.NewActor(id, role)
	require.NoError(t, err)
	return a
}

func seedOrder(t *testing.T, ledger *memory.Ledger, customer string, at time.Time, pending bool) *order.Order {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), 2)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.DefaultRestaurant, kernel.NewUUID(), customer, []order.LineItem{item}, 900, at)
	require.NoError(t, err)
	if pending {
		tok, err := kernel.NewToken()
		require.NoError(t, err)
		require.NoError(t, o.AwaitKitchenDecision(tok, at))
	}
	require.NoError(t, ledger.Orders().Add(t.Context(), o))
	return o
}

func TestGetOrderQueryHandler(t *testing.T) {
	ledger := memory.NewLedger()
	o := seedOrder(t, ledger, "alice", start, true)
	handler, err := queries.NewGetOrderQueryHandler(ledger)
	require.NoError(t, err)

	t.Run("should hide the token from the customer", func(t *testing.T) {
		q, err := queries.NewGetOrderQuery(kernel.DefaultRestaurant, o.ID(), mustActor(t, "alice", actor.Customer))
		require.NoError(t, err)

		resp, err := handler.Handle(t.Context(), q)
		require.NoError(t, err)
		assert.Equal(t, order.PendingKitchenDecision, resp.Status)
		assert.Equal(t, order.KitchenConfirm, resp.AwaitedStage)
		assert.Empty(t, resp.PendingToken)
		require.Len(t, resp.LineItems, 1)
		assert.Equal(t, 2, resp.LineItems[0].Quantity)
	})

	t.Run("should show the token to the kitchen", func(t *testing.T) {
		q, _ := queries.NewGetOrderQuery(kernel.DefaultRestaurant, o.ID(), mustActor(t, "carl", actor.Cook))
		resp, err := handler.Handle(t.Context(), q)
		require.NoError(t, err)
		assert.Equal(t, o.PendingToken().String(), resp.PendingToken)
	})

	t.Run("should refuse other customers", func(t *testing.T) {
		q, _ := queries.NewGetOrderQuery(kernel.DefaultRestaurant, o.ID(), mustActor(t, "bob", actor.Customer))
		_, err := handler.Handle(t.Context(), q)
		require.ErrorIs(t, err, errs.ErrAccessDenied)
	})

	t.Run("should report unknown orders", func(t *testing.T) {
		q, _ := queries.NewGetOrderQuery(kernel.DefaultRestaurant, kernel.NewUUID(), mustActor(t, "carl", actor.Cook))
		_, err := handler.Handle(t.Context(), q)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should not validate when built by hand", func(t *testing.T) {
		_, err := handler.Handle(t.Context(), queries.GetOrderQuery{})
		require.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
	})
}

func TestListOrdersQueryHandler(t *testing.T) {
	ledger := memory.NewLedger()
	for i := range 3 {
		seedOrder(t, ledger, "alice", start.Add(time.Duration(i)*time.Minute), true)
	}
	seedOrder(t, ledger, "bob", start.Add(time.Hour), true)
	seedOrder(t, ledger, "bob", start.Add(2*time.Hour), false)

	handler, err := queries.NewListOrdersQueryHandler(ledger)
	require.NoError(t, err)

	t.Run("should limit customers to their orders", func(t *testing.T) {
		q, err := queries.NewListOrdersQuery(kernel.DefaultRestaurant, mustActor(t, "alice", actor.Customer), nil, "", 10)
		require.NoError(t, err)
		page, err := handler.Handle(t.Context(), q)
		require.NoError(t, err)
		assert.Len(t, page.Orders, 3)
		for _, o := range page.Orders {
			assert.Equal(t, "alice", o.CustomerRef)
		}
	})

	t.Run("should page the kitchen queue newest first", func(t *testing.T) {
		cook := mustActor(t, "carl", actor.Cook)
		pending := []order.Status{order.PendingKitchenDecision}

		q, err := queries.NewListOrdersQuery(kernel.DefaultRestaurant, cook, pending, "", 3)
		require.NoError(t, err)
		first, err := handler.Handle(t.Context(), q)
		require.NoError(t, err)
		require.Len(t, first.Orders, 3)
		require.NotEmpty(t, first.NextCursor)
		assert.Equal(t, "bob", first.Orders[0].CustomerRef)
		assert.True(t, first.Orders[0].CreatedAt.After(first.Orders[1].CreatedAt))

		q, err = queries.NewListOrdersQuery(kernel.DefaultRestaurant, cook, pending, first.NextCursor, 3)
		require.NoError(t, err)
		second, err := handler.Handle(t.Context(), q)
		require.NoError(t, err)
		assert.Len(t, second.Orders, 1)
		assert.Empty(t, second.NextCursor)
	})

	t.Run("should reject bad input", func(t *testing.T) {
		_, err := queries.NewListOrdersQuery(kernel.DefaultRestaurant, mustActor(t, "carl", actor.Cook), []order.Status{order.Unknown}, "", 3)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = queries.NewListOrdersQuery(kernel.DefaultRestaurant, mustActor(t, "carl", actor.Cook), nil, "%%%", 3)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestListOrderHistoryQueryHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger := memory.NewLedger()
	recorder, err := services.NewHistoryRecorder(ledger, logger)
	require.NoError(t, err)
	o := seedOrder(t, ledger, "alice", start, true)
	alice := mustActor(t, "alice", actor.Customer)

	for i, s := range []order.Status{order.Created, order.PendingKitchenDecision, order.Cooking} {
		_, err := recorder.Record(t.Context(), o.RestaurantID(), o.ID(), s, alice, "", s.String(), start.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	handler, err := queries.NewListOrderHistoryQueryHandler(ledger, recorder)
	require.NoError(t, err)

	t.Run("should page in sequence order", func(t *testing.T) {
		q, err := queries.NewListOrderHistoryQuery(kernel.DefaultRestaurant, o.ID(), 0, 2)
		require.NoError(t, err)
		page, err := handler.Handle(t.Context(), q)
		require.NoError(t, err)
		require.Len(t, page.Entries, 2)
		assert.Equal(t, order.Created, page.Entries[0].StageReached)
		assert.Equal(t, actor.Customer, page.Entries[0].ActorRole)
		assert.Equal(t, int64(2), page.NextAfter)

		q, err = queries.NewListOrderHistoryQuery(kernel.DefaultRestaurant, o.ID(), page.NextAfter, 2)
		require.NoError(t, err)
		rest, err := handler.Handle(t.Context(), q)
		require.NoError(t, err)
		require.Len(t, rest.Entries, 1)
		assert.Equal(t, order.Cooking, rest.Entries[0].StageReached)
		assert.Zero(t, rest.NextAfter)
	})

	t.Run("should report unknown orders", func(t *testing.T) {
		q, _ := queries.NewListOrderHistoryQuery(kernel.DefaultRestaurant, kernel.NewUUID(), 0, 2)
		_, err := handler.Handle(t.Context(), q)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should reject a negative start", func(t *testing.T) {
		_, err := queries.NewListOrderHistoryQuery(kernel.DefaultRestaurant, o.ID(), -1, 2)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestListProductsQueryHandler(t *testing.T) {
	ledger := memory.NewLedger()
	for i := range 3 {
		p, err := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), "dish", 500, i+1, start.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, ledger.Products().Add(t.Context(), p))
	}
	handler, err := queries.NewListProductsQueryHandler(ledger)
	require.NoError(t, err)

	q, err := queries.NewListProductsQuery(kernel.DefaultRestaurant, "", 2)
	require.NoError(t, err)
	page, err := handler.Handle(t.Context(), q)
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	require.NotEmpty(t, page.NextCursor)

	q, err = queries.NewListProductsQuery(kernel.DefaultRestaurant, page.NextCursor, 2)
	require.NoError(t, err)
	rest, err := handler.Handle(t.Context(), q)
	require.NoError(t, err)
	assert.Len(t, rest.Products, 1)
	assert.Empty(t, rest.NextCursor)
}
