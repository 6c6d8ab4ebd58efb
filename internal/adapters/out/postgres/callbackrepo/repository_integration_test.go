package callbackrepo_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/callbackrepo"
	"orderflow/internal/core/domain/model/actor"
	"orderflow/internal/core/domain/model/callback"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const ttl = 48 * time.Hour

type CallbackRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *callbackrepo.GormCallbackRepository
	restaurant kernel.RestaurantID
	cook       actor.Actor
	now        time.Time
}

func (suite *CallbackRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&callbackrepo.CallbackDTO{}))

	suite.restaurant, err = kernel.NewRestaurantID("trattoria")
	suite.Require().NoError(err)
	suite.cook, err = actor.NewActor("carl", actor.Cook)
	suite.Require().NoError(err)
	suite.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *CallbackRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE callbacks").Error)
	suite.repository = callbackrepo.NewGormCallbackRepository(suite.db)
}

func (suite *CallbackRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CallbackRepositoryIntegrationTestSuite) TestAdd_SameRegistrationTwice_IsNoOp() {
	ctx := context.Background()
	cb := suite.issue(kernel.NewUUID(), order.KitchenConfirm)

	suite.Require().NoError(suite.repository.Add(ctx, cb))
	suite.Require().NoError(suite.repository.Add(ctx, cb))

	stored, err := suite.repository.Get(ctx, cb.Token())
	suite.Require().NoError(err)
	suite.Equal(callback.Pending, stored.State())
	suite.Equal(order.KitchenConfirm, stored.Stage())
	suite.WithinDuration(suite.now.Add(ttl), stored.ExpiresAt(), time.Millisecond)
}

func (suite *CallbackRepositoryIntegrationTestSuite) TestAdd_TokenBoundElsewhere_ReturnsVersionError() {
	ctx := context.Background()
	cb := suite.issue(kernel.NewUUID(), order.KitchenConfirm)
	suite.Require().NoError(suite.repository.Add(ctx, cb))

	clash, err := callback.Issue(cb.Token(), suite.restaurant, kernel.NewUUID(), order.KitchenConfirm, suite.now, ttl)
	suite.Require().NoError(err)

	suite.Require().ErrorIs(suite.repository.Add(ctx, clash), errs.ErrVersionIsInvalid)
}

func (suite *CallbackRepositoryIntegrationTestSuite) TestGet_UnknownToken_ReturnsNotFoundError() {
	token, err := kernel.NewToken()
	suite.Require().NoError(err)

	_, err = suite.repository.Get(context.Background(), token)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CallbackRepositoryIntegrationTestSuite) TestConsume_StoresResolution() {
	ctx := context.Background()
	cb := suite.issue(kernel.NewUUID(), order.KitchenConfirm)
	suite.Require().NoError(suite.repository.Add(ctx, cb))

	next, err := kernel.NewToken()
	suite.Require().NoError(err)
	suite.consume(cb, order.Accept, next, suite.now.Add(time.Minute))
	suite.Require().NoError(suite.repository.Consume(ctx, cb))

	stored, err := suite.repository.Get(ctx, cb.Token())
	suite.Require().NoError(err)
	suite.Equal(callback.Consumed, stored.State())
	res, ok := stored.Resolution()
	suite.Require().True(ok)
	suite.Equal(order.Accept, res.Decision())
	suite.Equal("carl", res.Actor().ID())
	suite.Equal("extra basil", res.Notes())
	suite.True(next.IsEqual(res.NextToken()))
}

func (suite *CallbackRepositoryIntegrationTestSuite) TestConsume_Concurrent_ExactlyOneWins() {
	ctx := context.Background()
	cb := suite.issue(kernel.NewUUID(), order.KitchenConfirm)
	suite.Require().NoError(suite.repository.Add(ctx, cb))

	var (
		wg       sync.WaitGroup
		wins     atomic.Int32
		notFound atomic.Int32
	)
	for range 8 {
		attempt, err := suite.repository.Get(ctx, cb.Token())
		suite.Require().NoError(err)
		suite.consume(attempt, order.Accept, kernel.Token{}, suite.now.Add(time.Minute))

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := suite.repository.Consume(ctx, attempt)
			switch {
			case err == nil:
				wins.Add(1)
			case errs.KindOf(err) == errs.KindTokenNotFound:
				notFound.Add(1)
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(1), wins.Load())
	suite.Equal(int32(7), notFound.Load())
}

func (suite *CallbackRepositoryIntegrationTestSuite) TestConsume_PastDeadline_ReturnsTokenNotFound() {
	ctx := context.Background()
	cb := suite.issue(kernel.NewUUID(), order.KitchenConfirm)
	suite.Require().NoError(suite.repository.Add(ctx, cb))

	// The domain object is consumed just in time, but the row is checked against its own deadline.
	stale, err := callback.RestoreCallback(cb.Token(), cb.RestaurantID(), cb.OrderID(), cb.Stage(), callback.Pending,
		cb.IssuedAt(), cb.ExpiresAt().Add(time.Hour), time.Time{}, time.Time{}, nil)
	suite.Require().NoError(err)
	suite.consume(stale, order.Accept, kernel.Token{}, cb.ExpiresAt().Add(time.Minute))

	err = suite.repository.Consume(ctx, stale)

	suite.Require().ErrorIs(err, errs.ErrTokenNotFound)
}

func (suite *CallbackRepositoryIntegrationTestSuite) TestMarkSettled_IsIdempotent() {
	ctx := context.Background()
	cb := suite.issue(kernel.NewUUID(), order.KitchenConfirm)
	suite.Require().NoError(suite.repository.Add(ctx, cb))
	suite.consume(cb, order.Reject, kernel.Token{}, suite.now.Add(time.Minute))
	suite.Require().NoError(suite.repository.Consume(ctx, cb))

	suite.Require().NoError(cb.Settle(suite.now.Add(2 * time.Minute)))
	suite.Require().NoError(suite.repository.MarkSettled(ctx, cb))
	suite.Require().NoError(suite.repository.MarkSettled(ctx, cb))

	stored, err := suite.repository.Get(ctx, cb.Token())
	suite.Require().NoError(err)
	suite.Equal(callback.Settled, stored.State())
}

func (suite *CallbackRepositoryIntegrationTestSuite) TestInvalidate_OnlyPending() {
	ctx := context.Background()
	cb := suite.issue(kernel.NewUUID(), order.KitchenConfirm)
	suite.Require().NoError(suite.repository.Add(ctx, cb))

	suite.Require().NoError(suite.repository.Invalidate(ctx, cb))
	suite.Require().ErrorIs(suite.repository.Invalidate(ctx, cb), errs.ErrTokenNotFound)

	stored, err := suite.repository.Get(ctx, cb.Token())
	suite.Require().NoError(err)
	suite.Equal(callback.Invalidated, stored.State())
}

func (suite *CallbackRepositoryIntegrationTestSuite) TestListConsumedBefore_OldestFirst() {
	ctx := context.Background()
	var tokens []kernel.Token
	for i := range 3 {
		cb := suite.issue(kernel.NewUUID(), order.KitchenConfirm)
		suite.Require().NoError(suite.repository.Add(ctx, cb))
		suite.consume(cb, order.Accept, kernel.Token{}, suite.now.Add(time.Duration(3-i)*time.Minute))
		suite.Require().NoError(suite.repository.Consume(ctx, cb))
		tokens = append(tokens, cb.Token())
	}
	pending := suite.issue(kernel.NewUUID(), order.KitchenConfirm)
	suite.Require().NoError(suite.repository.Add(ctx, pending))

	listed, err := suite.repository.ListConsumedBefore(ctx, suite.now.Add(150*time.Second), 10)
	suite.Require().NoError(err)

	suite.Require().Len(listed, 2)
	suite.True(tokens[2].IsEqual(listed[0].Token()))
	suite.True(tokens[1].IsEqual(listed[1].Token()))
}

func (suite *CallbackRepositoryIntegrationTestSuite) TestExpirePendingBefore_MarksOnlyOverdue() {
	ctx := context.Background()
	overdue := suite.issue(kernel.NewUUID(), order.KitchenConfirm)
	suite.Require().NoError(suite.repository.Add(ctx, overdue))

	fresh, err := kernel.NewToken()
	suite.Require().NoError(err)
	later, err := callback.Issue(fresh, suite.restaurant, kernel.NewUUID(), order.KitchenConfirm, suite.now.Add(24*time.Hour), ttl)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, later))

	n, err := suite.repository.ExpirePendingBefore(ctx, suite.now.Add(ttl))
	suite.Require().NoError(err)
	suite.Equal(int64(1), n)

	stored, err := suite.repository.Get(ctx, overdue.Token())
	suite.Require().NoError(err)
	suite.Equal(callback.Expired, stored.State())
	stored, err = suite.repository.Get(ctx, fresh)
	suite.Require().NoError(err)
	suite.Equal(callback.Pending, stored.State())
}

func (suite *CallbackRepositoryIntegrationTestSuite) issue(orderID kernel.UUID, stage order.Stage) *callback.Callback {
	token, err := kernel.NewToken()
	suite.Require().NoError(err)
	cb, err := callback.Issue(token, suite.restaurant, orderID, stage, suite.now, ttl)
	suite.Require().NoError(err)
	return cb
}

func (suite *CallbackRepositoryIntegrationTestSuite) consume(cb *callback.Callback, decision order.Decision, next kernel.Token, at time.Time) {
	res, err := callback.NewResolution(decision, suite.cook, "extra basil", next)
	suite.Require().NoError(err)
	suite.Require().NoError(cb.Consume(res, at))
}

func TestCallbackRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CallbackRepositoryIntegrationTestSuite))
}
