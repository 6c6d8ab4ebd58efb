package product_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	now := time.Now()

	t.Run("should create product", func(t *testing.T) {
		p, err := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), " Lomo saltado ", 3500, 10, now)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.Equal(t, "Lomo saltado", p.Name())
		assert.Equal(t, int64(3500), p.UnitPrice())
		assert.Equal(t, 10, p.Stock())
	})

	t.Run("should reject negative stock and price", func(t *testing.T) {
		_, err := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), "Ceviche", -1, -1, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "unitPrice")
		assert.Contains(t, err.Error(), "stock")
	})

	t.Run("should require a name", func(t *testing.T) {
		_, err := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), "", 0, 0, now)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestProduct_Reserve(t *testing.T) {
	p, _ := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), "Ceviche", 2000, 2, time.Now())

	t.Run("should never go negative", func(t *testing.T) {
		assert.False(t, p.CanReserve(3))

		err := p.Reserve(3)

		var stockErr *errs.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 3, stockErr.Requested)
		assert.Equal(t, 2, stockErr.Available)
		assert.Equal(t, 2, p.Stock())
	})

	t.Run("should decrement and restock", func(t *testing.T) {
		require.NoError(t, p.Reserve(2))
		assert.Equal(t, 0, p.Stock())

		require.NoError(t, p.Restock(5))
		assert.Equal(t, 5, p.Stock())
	})

	t.Run("should reject non-positive quantities", func(t *testing.T) {
		require.ErrorIs(t, p.Reserve(0), errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, p.Restock(-1), errs.ErrValueIsOutOfRange)
	})
}

func TestProduct_UpdateDetails(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("should change name and price but not stock", func(t *testing.T) {
		p, _ := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), "Ceviche", 2000, 4, created)

		require.NoError(t, p.UpdateDetails(" Ceviche mixto ", 2400))

		assert.Equal(t, "Ceviche mixto", p.Name())
		assert.Equal(t, int64(2400), p.UnitPrice())
		assert.Equal(t, 4, p.Stock())
	})

	t.Run("should leave the product untouched when one field is invalid", func(t *testing.T) {
		p, _ := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), "Ceviche", 2000, 4, created)

		err := p.UpdateDetails("Tiradito", -5)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, "Ceviche", p.Name())
		assert.Equal(t, int64(2000), p.UnitPrice())
	})

	t.Run("should refuse a retired product", func(t *testing.T) {
		p, _ := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), "Ceviche", 2000, 4, created)
		p.Retire(created.Add(time.Hour))

		require.ErrorIs(t, p.UpdateDetails("Tiradito", 1000), errs.ErrInvalidState)
	})
}

func TestProduct_Retire(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p, _ := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), "Ceviche", 2000, 4, created)
	require.False(t, p.IsRetired())

	first := created.Add(time.Hour)
	p.Retire(first)
	p.Retire(first.Add(time.Hour))

	assert.True(t, p.IsRetired())
	assert.Equal(t, first, p.RetiredAt())
	require.NoError(t, p.Restock(2), "reservations are still released into a retired product")
	assert.Equal(t, 6, p.Stock())
}
