package queries_test

import (
	"io"
	"log/slog"
	"testing"

	"orderflow/internal/adapters/out/memory"
	"orderflow/internal/core/application/services"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCheckStockQuery(t *testing.T) {
	_, err := queries.NewCheckStockQuery(kernel.DefaultRestaurant, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCheckStockQueryHandler(t *testing.T) {
	ledger := memory.NewLedger()
	p, err := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), "Causa", 1200, 2, start)
	require.NoError(t, err)
	require.NoError(t, ledger.Products().Add(t.Context(), p))
	stock, err := services.NewStockReservation(ledger, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	handler, err := queries.NewCheckStockQueryHandler(stock)
	require.NoError(t, err)

	check := func(t *testing.T, qty int) (queries.CheckStockQueryResponse, error) {
		t.Helper()
		li, err := order.NewLineItem(p.ID(), qty)
		require.NoError(t, err)
		q, err := queries.NewCheckStockQuery(kernel.DefaultRestaurant, []order.LineItem{li})
		require.NoError(t, err)
		return handler.Handle(t.Context(), q)
	}

	t.Run("should price an available batch", func(t *testing.T) {
		resp, err := check(t, 2)

		require.NoError(t, err)
		assert.True(t, resp.Available)
		assert.Equal(t, int64(2400), resp.TotalPrice)
		require.Len(t, resp.LineItems, 1)
		assert.Nil(t, resp.Shortage)
	})

	t.Run("should answer a shortage as data", func(t *testing.T) {
		resp, err := check(t, 5)

		require.NoError(t, err)
		assert.False(t, resp.Available)
		require.NotNil(t, resp.Shortage)
		assert.Equal(t, p.ID().String(), resp.Shortage.ProductID)
		assert.Equal(t, 5, resp.Shortage.Requested)
		assert.Equal(t, 2, resp.Shortage.Available)
	})

	t.Run("should leave stock untouched", func(t *testing.T) {
		got, err := ledger.Products().Get(t.Context(), kernel.DefaultRestaurant, p.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, got.Stock())
	})

	t.Run("should reject unknown products", func(t *testing.T) {
		li, _ := order.NewLineItem(kernel.NewUUID(), 1)
		q, _ := queries.NewCheckStockQuery(kernel.DefaultRestaurant, []order.LineItem{li})
		_, err := handler.Handle(t.Context(), q)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
