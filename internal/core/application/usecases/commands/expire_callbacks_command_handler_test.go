package commands_test

import (
	"testing"
	"time"

	"orderflow/internal/core/application/services"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireCallbacks(t *testing.T) {
	f := newFixture(t, nil)
	p := f.product(t, 500, 3)
	created, err := f.placeOrder(t.Context(), t, alice, item(t, p, 1))
	require.NoError(t, err)
	token := f.order(t, created.OrderID).PendingToken()

	expire, err := commands.NewExpireCallbacksCommandHandler(f.registry)
	require.NoError(t, err)

	n, err := expire.Handle(t.Context(), commands.NewExpireCallbacksCommand())
	require.NoError(t, err)
	assert.Zero(t, n, "nothing is past its deadline yet")

	f.clock.Advance(services.DefaultCallbackTTL + time.Minute)
	n, err = expire.Handle(t.Context(), commands.NewExpireCallbacksCommand())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.decide(t, token, carl, order.Accept, order.KitchenConfirm)
	require.ErrorIs(t, err, errs.ErrTokenNotFound)
	assert.Equal(t, order.PendingKitchenDecision, f.order(t, created.OrderID).Status())

	_, err = expire.Handle(t.Context(), commands.ExpireCallbacksCommand{})
	require.ErrorIs(t, err, commands.ErrExpireCallbacksCommandIsNotConstructed)

	_, err = commands.NewExpireCallbacksCommandHandler(nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
