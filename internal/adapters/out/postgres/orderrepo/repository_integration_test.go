package orderrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite runs the order repository against a real PostgreSQL.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	restaurant kernel.RestaurantID
	now        time.Time
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))

	suite.restaurant, err = kernel.NewRestaurantID("trattoria")
	suite.Require().NoError(err)
	suite.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_RoundTrips() {
	ctx := context.Background()
	o := suite.newOrder("alice", suite.now)

	suite.Require().NoError(suite.repository.Add(ctx, o))

	stored, err := suite.repository.Get(ctx, suite.restaurant, o.ID())
	suite.Require().NoError(err)
	suite.Equal(o.ID(), stored.ID())
	suite.Equal("alice", stored.CustomerRef())
	suite.Equal(order.Created, stored.Status())
	suite.Equal(int64(1800), stored.TotalPrice())
	suite.Equal(int64(1), stored.Version())
	suite.Require().Len(stored.LineItems(), 2)
	suite.Equal(o.LineItems()[0].ProductID(), stored.LineItems()[0].ProductID())
	suite.Equal(o.LineItems()[1].Quantity(), stored.LineItems()[1].Quantity())
	suite.True(stored.PendingToken().IsZero())
	suite.WithinDuration(suite.now, stored.CreatedAt(), time.Millisecond)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateKey_ReturnsVersionError() {
	ctx := context.Background()
	o := suite.newOrder("alice", suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	err := suite.repository.Add(ctx, o)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_SameIDOtherRestaurant_Succeeds() {
	ctx := context.Background()
	o := suite.newOrder("alice", suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	other, err := kernel.NewRestaurantID("pizzeria")
	suite.Require().NoError(err)
	twin, err := order.NewOrder(other, o.ID(), "alice", o.LineItems(), o.TotalPrice(), suite.now)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, twin))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), suite.restaurant, kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_CurrentVersion_PersistsAndAdvances() {
	ctx := context.Background()
	o := suite.newOrder("alice", suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	token := suite.newToken()
	suite.Require().NoError(o.AwaitKitchenDecision(token, suite.now.Add(time.Second)))
	suite.Require().NoError(suite.repository.Update(ctx, o))
	suite.Equal(int64(2), o.Version())

	stored, err := suite.repository.Get(ctx, suite.restaurant, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.PendingKitchenDecision, stored.Status())
	suite.True(token.IsEqual(stored.PendingToken()))
	suite.Equal(int64(2), stored.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsVersionError() {
	ctx := context.Background()
	o := suite.newOrder("alice", suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	first, err := suite.repository.Get(ctx, suite.restaurant, o.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, suite.restaurant, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.Cancel(suite.now))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.AwaitKitchenDecision(suite.newToken(), suite.now))
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	suite.Equal(int64(1), second.Version())

	stored, err := suite.repository.Get(ctx, suite.restaurant, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, stored.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ConcurrentWriters_OneWins() {
	ctx := context.Background()
	o := suite.newOrder("alice", suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	const writers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		conflict int
	)
	for range writers {
		copyOf, err := suite.repository.Get(ctx, suite.restaurant, o.ID())
		suite.Require().NoError(err)
		suite.Require().NoError(copyOf.Cancel(suite.now))

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := suite.repository.Update(ctx, copyOf)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if errs.KindOf(err) == errs.KindConflict {
				conflict++
			}
		}()
	}
	wg.Wait()

	suite.Equal(1, wins)
	suite.Equal(writers-1, conflict)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFoundError() {
	o := suite.newOrder("alice", suite.now)

	err := suite.repository.Update(context.Background(), o)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestList_FiltersAndPages() {
	ctx := context.Background()
	for i := range 5 {
		o := suite.newOrder("alice", suite.now.Add(time.Duration(i)*time.Minute))
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}
	bobs := suite.newOrder("bob", suite.now.Add(time.Hour))
	suite.Require().NoError(bobs.AwaitKitchenDecision(suite.newToken(), suite.now.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Add(ctx, bobs))

	filter := ports.OrderFilter{RestaurantID: suite.restaurant, CustomerRef: "alice"}
	page1, cursor, err := suite.repository.List(ctx, filter, "", 3)
	suite.Require().NoError(err)
	suite.Require().Len(page1, 3)
	suite.Require().NotEmpty(cursor)
	suite.True(page1[0].CreatedAt().After(page1[1].CreatedAt()))

	page2, cursor, err := suite.repository.List(ctx, filter, cursor, 3)
	suite.Require().NoError(err)
	suite.Len(page2, 2)
	suite.Empty(cursor)
	suite.True(page1[2].CreatedAt().After(page2[0].CreatedAt()))

	pending, _, err := suite.repository.List(ctx, ports.OrderFilter{
		RestaurantID: suite.restaurant,
		Statuses:     []order.Status{order.PendingKitchenDecision},
	}, "", 10)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal(bobs.ID(), pending[0].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestList_MalformedCursor_ReturnsValidationError() {
	_, _, err := suite.repository.List(context.Background(), ports.OrderFilter{}, "%%%", 10)

	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(customer string, at time.Time) *order.Order {
	pasta, err := order.NewLineItem(kernel.NewUUID(), 2)
	suite.Require().NoError(err)
	wine, err := order.NewLineItem(kernel.NewUUID(), 1)
	suite.Require().NoError(err)

	o, err := order.NewOrder(suite.restaurant, kernel.NewUUID(), customer, []order.LineItem{pasta, wine}, 1800, at)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) newToken() kernel.Token {
	token, err := kernel.NewToken()
	suite.Require().NoError(err)
	return token
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
