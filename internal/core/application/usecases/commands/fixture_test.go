package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"orderflow/internal/adapters/out/localflow"
	"orderflow/internal/adapters/out/memory"
	"orderflow/internal/core/application/services"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	alice = mustActor("alice", actor.Customer)
	bob   = mustActor("bob", actor.Customer)
	carl  = mustActor("carl", actor.Cook)
	dana  = mustActor("dana", actor.Deliverer)
	mia   = mustActor("mia", actor.Manager)
)

func mustActor(id string, role actor.Role) actor.Actor {
	a, err := actor.NewActor(id, role)
	if err != nil {
		panic(err)
	}
	return a
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// hookedLedger runs a test hook right before a history append or an order update reaches the
// in-memory ledger. A hook error is returned in place of the write.
type hookedLedger struct {
	*memory.Ledger

	beforeAppend func(history.Entry) error
	beforeUpdate func(*order.Order) error
}

func (l *hookedLedger) History() ports.HistoryRepository {
	return hookedHistory{HistoryRepository: l.Ledger.History(), l: l}
}

func (l *hookedLedger) Orders() ports.OrderRepository {
	return hookedOrders{OrderRepository: l.Ledger.Orders(), l: l}
}

type hookedHistory struct {
	ports.HistoryRepository
	l *hookedLedger
}

func (h hookedHistory) Append(ctx context.Context, entry history.Entry) (history.Entry, error) {
	if h.l.beforeAppend != nil {
		if err := h.l.beforeAppend(entry); err != nil {
			return history.Entry{}, err
		}
	}
	return h.HistoryRepository.Append(ctx, entry)
}

type hookedOrders struct {
	ports.OrderRepository
	l *hookedLedger
}

func (o hookedOrders) Update(ctx context.Context, aggregate *order.Order) error {
	if o.l.beforeUpdate != nil {
		if err := o.l.beforeUpdate(aggregate); err != nil {
			return err
		}
	}
	return o.OrderRepository.Update(ctx, aggregate)
}

type fixture struct {
	ledger   *memory.Ledger
	hooks    *hookedLedger
	clock    *clock.Manual
	events   *memory.EventLog
	flow     *localflow.Orchestrator
	registry *services.CallbackRegistry
	recorder *services.HistoryRecorder
	wf       commands.Workflow

	create  commands.CreateOrderCommandHandler
	resolve commands.ResolveCallbackCommandHandler
	cancel  commands.CancelOrderCommandHandler
	settle  commands.SettleCallbacksCommandHandler
}

// newFixture wires the order commands to in-memory collaborators. wrap, when given, replaces
// the local orchestrator the commands talk to. Every write goes through f.hooks.
func newFixture(t *testing.T, wrap func(*localflow.Orchestrator) ports.Orchestrator) *fixture {
	t.Helper()
	logger := discardLogger()
	f := &fixture{
		ledger: memory.NewLedger(),
		clock:  clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		events: memory.NewEventLog(logger),
	}
	f.hooks = &hookedLedger{Ledger: f.ledger}

	var err error
	f.flow, err = localflow.NewOrchestrator(f.clock, services.DefaultCallbackTTL, logger)
	require.NoError(t, err)
	var orchestrator ports.Orchestrator = f.flow
	if wrap != nil {
		orchestrator = wrap(f.flow)
	}

	stock, err := services.NewStockReservation(f.hooks, logger)
	require.NoError(t, err)
	f.recorder, err = services.NewHistoryRecorder(f.hooks, logger)
	require.NoError(t, err)
	f.registry, err = services.NewCallbackRegistry(f.hooks, f.clock, 0, logger)
	require.NoError(t, err)

	f.wf = commands.Workflow{
		Ledger:       f.hooks,
		Stock:        stock,
		History:      f.recorder,
		Callbacks:    f.registry,
		Orchestrator: orchestrator,
		Events:       f.events,
		Clock:        f.clock,
		Logger:       logger,
	}

	f.create, err = commands.NewCreateOrderCommandHandler(f.wf)
	require.NoError(t, err)
	f.resolve, err = commands.NewResolveCallbackCommandHandler(f.wf)
	require.NoError(t, err)
	f.cancel, err = commands.NewCancelOrderCommandHandler(f.wf)
	require.NoError(t, err)
	f.settle, err = commands.NewSettleCallbacksCommandHandler(f.wf)
	require.NoError(t, err)
	return f
}

func (f *fixture) product(t *testing.T, price int64, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), "margherita", price, stock, f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.ledger.Products().Add(t.Context(), p))
	return p
}

func (f *fixture) stockOf(t *testing.T, p *product.Product) int {
	t.Helper()
	stored, err := f.ledger.Products().Get(t.Context(), p.RestaurantID(), p.ID())
	require.NoError(t, err)
	return stored.Stock()
}

func item(t *testing.T, p *product.Product, qty int) order.LineItem {
	t.Helper()
	it, err := order.NewLineItem(p.ID(), qty)
	require.NoError(t, err)
	return it
}

func (f *fixture) placeOrder(ctx context.Context, t *testing.T, by actor.Actor, items ...order.LineItem) (commands.OrderResult, error) {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.DefaultRestaurant, by, "", items)
	require.NoError(t, err)
	return f.create.Handle(ctx, cmd)
}

func (f *fixture) decide(t *testing.T, token kernel.Token, by actor.Actor, d order.Decision, stage order.Stage) (commands.OrderResult, error) {
	t.Helper()
	cmd, err := commands.NewResolveCallbackCommand(token, by, d, "", stage)
	require.NoError(t, err)
	return f.resolve.Handle(t.Context(), cmd)
}

func (f *fixture) order(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := f.ledger.Orders().Get(t.Context(), kernel.DefaultRestaurant, id)
	require.NoError(t, err)
	return o
}

// history returns the recorded stages of an order and checks that sequence ids increase.
func (f *fixture) history(t *testing.T, id kernel.UUID) []order.Status {
	t.Helper()
	entries, _, err := f.recorder.List(t.Context(), kernel.DefaultRestaurant, id, 0, 100)
	require.NoError(t, err)
	stages := make([]order.Status, 0, len(entries))
	var last int64
	for _, e := range entries {
		require.Greater(t, e.SequenceID(), last)
		last = e.SequenceID()
		stages = append(stages, e.StageReached())
	}
	return stages
}

type MockOrchestrator struct{ mock.Mock }

func (m *MockOrchestrator) Start(ctx context.Context, in ports.WorkflowInput) (kernel.Token, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(kernel.Token), args.Error(1)
}

func (m *MockOrchestrator) Resume(ctx context.Context, token kernel.Token, payload ports.ResumePayload) error {
	args := m.Called(ctx, token, payload)
	return args.Error(0)
}

// flakyOrchestrator fails the first resumes it sees.
type flakyOrchestrator struct {
	*localflow.Orchestrator

	mu       sync.Mutex
	failures int
}

func (o *flakyOrchestrator) Resume(ctx context.Context, token kernel.Token, payload ports.ResumePayload) error {
	o.mu.Lock()
	if o.failures > 0 {
		o.failures--
		o.mu.Unlock()
		return errors.New("503 service unavailable")
	}
	o.mu.Unlock()
	return o.Orchestrator.Resume(ctx, token, payload)
}

// catalog is the product side of the ledger on its own.
type catalog struct {
	ledger *memory.Ledger
	clock  *clock.Manual
	stock  *services.StockReservation
}

func newCatalog(t *testing.T) *catalog {
	t.Helper()
	c := &catalog{
		ledger: memory.NewLedger(),
		clock:  clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	var err error
	c.stock, err = services.NewStockReservation(c.ledger, discardLogger())
	require.NoError(t, err)
	return c
}

func (c *catalog) add(t *testing.T, name string, price int64, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), name, price, stock, c.clock.Now())
	require.NoError(t, err)
	require.NoError(t, c.ledger.Products().Add(t.Context(), p))
	return p
}

func (c *catalog) get(t *testing.T, id kernel.UUID) *product.Product {
	t.Helper()
	p, err := c.ledger.Products().Get(t.Context(), kernel.DefaultRestaurant, id)
	require.NoError(t, err)
	return p
}
