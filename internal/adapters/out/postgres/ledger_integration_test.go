package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"orderflow/internal/adapters/out/localflow"
	"orderflow/internal/adapters/out/memory"
	postgres_adapter "orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/services"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/product"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// LedgerIntegrationTestSuite drives the order commands over the GORM ledger, so the conditional
// writes are exercised by the workflow that depends on them.
type LedgerIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	ledger    *postgres_adapter.GormLedger
	clock     *clock.Manual

	create  commands.CreateOrderCommandHandler
	resolve commands.ResolveCallbackCommandHandler
	cancel  commands.CancelOrderCommandHandler

	customer actor.Actor
	cook     actor.Actor
}

func (suite *LedgerIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := postgres_adapter.Open(dsn)
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.customer, err = actor.NewActor("alice", actor.Customer)
	suite.Require().NoError(err)
	suite.cook, err = actor.NewActor("carl", actor.Cook)
	suite.Require().NoError(err)
}

func (suite *LedgerIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, products, history_entries, callbacks").Error
	suite.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.clock = clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	suite.ledger = postgres_adapter.NewGormLedger(suite.db)

	flow, err := localflow.NewOrchestrator(suite.clock, services.DefaultCallbackTTL, logger)
	suite.Require().NoError(err)
	stock, err := services.NewStockReservation(suite.ledger, logger)
	suite.Require().NoError(err)
	recorder, err := services.NewHistoryRecorder(suite.ledger, logger)
	suite.Require().NoError(err)
	registry, err := services.NewCallbackRegistry(suite.ledger, suite.clock, 0, logger)
	suite.Require().NoError(err)

	wf := commands.Workflow{
		Ledger:       suite.ledger,
		Stock:        stock,
		History:      recorder,
		Callbacks:    registry,
		Orchestrator: flow,
		Events:       memory.NewEventLog(logger),
		Clock:        suite.clock,
		Logger:       logger,
	}
	suite.create, err = commands.NewCreateOrderCommandHandler(wf)
	suite.Require().NoError(err)
	suite.resolve, err = commands.NewResolveCallbackCommandHandler(wf)
	suite.Require().NoError(err)
	suite.cancel, err = commands.NewCancelOrderCommandHandler(wf)
	suite.Require().NoError(err)
}

func (suite *LedgerIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *LedgerIntegrationTestSuite) TestCreateOrder_ConcurrentBuyers_NeverOversell() {
	ctx := context.Background()
	pizza := suite.addProduct(3)

	var (
		wg           sync.WaitGroup
		placed       atomic.Int32
		insufficient atomic.Int32
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.placeOrder(ctx, pizza, 1)
			switch errs.KindOf(err) {
			case "":
				placed.Add(1)
			case errs.KindInsufficientStock:
				insufficient.Add(1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(3), placed.Load())
	suite.Equal(int32(7), insufficient.Load())
	suite.Equal(0, suite.stockOf(pizza))
}

func (suite *LedgerIntegrationTestSuite) TestResolveCallback_RejectReleasesStockOnce() {
	ctx := context.Background()
	pizza := suite.addProduct(2)

	created, err := suite.placeOrder(ctx, pizza, 2)
	suite.Require().NoError(err)
	suite.Equal(0, suite.stockOf(pizza))

	token := suite.order(created.OrderID).PendingToken()
	cmd, err := commands.NewResolveCallbackCommand(token, suite.cook, order.Reject, "out of dough", order.KitchenConfirm)
	suite.Require().NoError(err)

	result, err := suite.resolve.Handle(ctx, cmd)
	suite.Require().NoError(err)
	suite.Equal(order.Rejected, result.Status)

	_, err = suite.resolve.Handle(ctx, cmd)
	suite.Require().ErrorIs(err, errs.ErrTokenNotFound)

	suite.Equal(2, suite.stockOf(pizza))
	suite.True(suite.order(created.OrderID).StockReleased())
}

func (suite *LedgerIntegrationTestSuite) TestCancelOrder_RetriedCancel_ReleasesOnce() {
	ctx := context.Background()
	pizza := suite.addProduct(4)

	created, err := suite.placeOrder(ctx, pizza, 3)
	suite.Require().NoError(err)

	cmd, err := commands.NewCancelOrderCommand(kernel.DefaultRestaurant, created.OrderID, suite.customer, "changed my mind")
	suite.Require().NoError(err)
	for range 2 {
		result, err := suite.cancel.Handle(ctx, cmd)
		suite.Require().NoError(err)
		suite.Equal(order.Cancelled, result.Status)
	}

	suite.Equal(4, suite.stockOf(pizza))
}

func (suite *LedgerIntegrationTestSuite) TestResolveCallback_ConcurrentCooks_OneAdvance() {
	ctx := context.Background()
	pizza := suite.addProduct(1)

	created, err := suite.placeOrder(ctx, pizza, 1)
	suite.Require().NoError(err)
	token := suite.order(created.OrderID).PendingToken()

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewResolveCallbackCommand(token, suite.cook, order.Accept, "", order.KitchenConfirm)
			if err != nil {
				return
			}
			if _, err := suite.resolve.Handle(ctx, cmd); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(1), wins.Load())
	suite.Equal(order.Cooking, suite.order(created.OrderID).Status())

	var entries int64
	suite.Require().NoError(suite.db.Table("history_entries").
		Where("order_id = ?", created.OrderID.Bytes()).Count(&entries).Error)
	suite.Equal(int64(3), entries)
}

func (suite *LedgerIntegrationTestSuite) addProduct(stock int) *product.Product {
	p, err := product.NewProduct(kernel.DefaultRestaurant, kernel.NewUUID(), "margherita", 1250, stock, suite.clock.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.ledger.Products().Add(context.Background(), p))
	return p
}

func (suite *LedgerIntegrationTestSuite) placeOrder(ctx context.Context, p *product.Product, qty int) (commands.OrderResult, error) {
	it, err := order.NewLineItem(p.ID(), qty)
	if err != nil {
		return commands.OrderResult{}, err
	}
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.DefaultRestaurant, suite.customer, "", []order.LineItem{it})
	if err != nil {
		return commands.OrderResult{}, err
	}
	return suite.create.Handle(ctx, cmd)
}

func (suite *LedgerIntegrationTestSuite) stockOf(p *product.Product) int {
	stored, err := suite.ledger.Products().Get(context.Background(), p.RestaurantID(), p.ID())
	suite.Require().NoError(err)
	return stored.Stock()
}

func (suite *LedgerIntegrationTestSuite) order(id kernel.UUID) *order.Order {
	o, err := suite.ledger.Orders().Get(context.Background(), kernel.DefaultRestaurant, id)
	suite.Require().NoError(err)
	return o
}

func TestLedgerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerIntegrationTestSuite))
}
