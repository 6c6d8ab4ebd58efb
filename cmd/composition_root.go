package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/localflow"
	"orderflow/internal/adapters/out/memory"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/tokenrepo"
	"orderflow/internal/adapters/out/restateflow"
	"orderflow/internal/core/application/services"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"
	"orderflow/internal/pkg/clock"

	"github.com/labstack/echo/v4"
)

// CompositionRoot builds every collaborator once from Config and hands out the use cases.
type CompositionRoot struct {
	configs    Config
	logger     *slog.Logger
	clock      clock.Clock
	ledger     ports.Ledger
	authorizer ports.Authorizer
	workflow   commands.Workflow
	closers    []func() error
}

func NewCompositionRoot(ctx context.Context, configs Config, logger *slog.Logger) (*CompositionRoot, error) {
	if err := configs.Validate(); err != nil {
		return nil, err
	}
	c := &CompositionRoot{
		configs: configs,
		logger:  logger,
		clock:   clock.System{},
	}

	if err := c.openLedger(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if err := c.buildWorkflow(); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	return c, nil
}

func (c *CompositionRoot) openLedger(ctx context.Context) error {
	tokens, err := memory.ParseTokenTable(c.configs.AuthStaticTokens)
	if err != nil {
		return err
	}

	if c.configs.LedgerDriver == LedgerMemory {
		c.ledger = memory.NewLedger()
		c.authorizer = memory.NewStaticAuthorizer(tokens)
		c.logger.Warn("using the in-memory ledger; orders are lost on restart")
		return nil
	}

	dsn, err := postgres.DSN(c.configs.DBURL, postgres.ConnectionParams{
		Host:     c.configs.DBHost,
		Port:     c.configs.DBPort,
		User:     c.configs.DBUser,
		Password: c.configs.DBPassword,
		DBName:   c.configs.DBName,
		SSLMode:  c.configs.DBSslMode,
	})
	if err != nil {
		return err
	}
	db, err := postgres.Open(dsn)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		c.closers = append(c.closers, sqlDB.Close)
	}

	if err := postgres.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	authorizer := tokenrepo.NewGormAuthorizer(db, c.clock)
	for bearer, who := range tokens {
		if err := authorizer.Grant(ctx, bearer, who, time.Time{}); err != nil {
			return fmt.Errorf("seed access tokens: %w", err)
		}
	}

	c.ledger = postgres.NewGormLedger(db)
	c.authorizer = authorizer
	return nil
}

func (c *CompositionRoot) buildWorkflow() error {
	stock, err := services.NewStockReservation(c.ledger, c.logger)
	if err != nil {
		return err
	}
	recorder, err := services.NewHistoryRecorder(c.ledger, c.logger)
	if err != nil {
		return err
	}
	registry, err := services.NewCallbackRegistry(c.ledger, c.clock, c.configs.CallbackTTL, c.logger)
	if err != nil {
		return err
	}

	var orchestrator ports.Orchestrator
	switch c.configs.OrchestratorDriver {
	case OrchestratorRestate:
		orchestrator, err = restateflow.NewOrchestrator(c.configs.RestateIngressURL, c.ledger.Callbacks(), c.configs.CallbackTTL, c.logger)
	default:
		orchestrator, err = localflow.NewOrchestrator(c.clock, c.configs.CallbackTTL, c.logger)
	}
	if err != nil {
		return err
	}

	var events ports.EventPublisher = memory.NewEventLog(c.logger)
	if brokers := c.configs.KafkaBrokers(); len(brokers) > 0 {
		publisher, err := kafka.NewPublisher(brokers, c.configs.KafkaOrderChangedTopic, c.logger)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, publisher.Close)
		events = publisher
	}

	c.workflow = commands.Workflow{
		Ledger:       c.ledger,
		Stock:        stock,
		History:      recorder,
		Callbacks:    registry,
		Orchestrator: orchestrator,
		Events:       events,
		Clock:        c.clock,
		Logger:       c.logger,
	}
	return c.workflow.Validate()
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() (commands.CreateOrderCommandHandler, error) {
	return commands.NewCreateOrderCommandHandler(c.workflow)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() (commands.CancelOrderCommandHandler, error) {
	return commands.NewCancelOrderCommandHandler(c.workflow)
}

func (c *CompositionRoot) CreateResolveCallbackCommandHandler() (commands.ResolveCallbackCommandHandler, error) {
	return commands.NewResolveCallbackCommandHandler(c.workflow)
}

func (c *CompositionRoot) CreateSettleCallbacksCommandHandler() (commands.SettleCallbacksCommandHandler, error) {
	return commands.NewSettleCallbacksCommandHandler(c.workflow)
}

func (c *CompositionRoot) CreateExpireCallbacksCommandHandler() (commands.ExpireCallbacksCommandHandler, error) {
	return commands.NewExpireCallbacksCommandHandler(c.workflow.Callbacks)
}

func (c *CompositionRoot) CreateCreateProductCommandHandler() (commands.CreateProductCommandHandler, error) {
	return commands.NewCreateProductCommandHandler(c.ledger, c.clock, c.logger)
}

func (c *CompositionRoot) CreateRestockProductCommandHandler() (commands.RestockProductCommandHandler, error) {
	return commands.NewRestockProductCommandHandler(c.ledger, c.workflow.Stock)
}

func (c *CompositionRoot) CreateUpdateProductCommandHandler() (commands.UpdateProductCommandHandler, error) {
	return commands.NewUpdateProductCommandHandler(c.ledger, c.logger)
}

func (c *CompositionRoot) CreateDeleteProductCommandHandler() (commands.DeleteProductCommandHandler, error) {
	return commands.NewDeleteProductCommandHandler(c.ledger, c.clock, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() (queries.GetOrderQueryHandler, error) {
	return queries.NewGetOrderQueryHandler(c.ledger)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() (queries.ListOrdersQueryHandler, error) {
	return queries.NewListOrdersQueryHandler(c.ledger)
}

func (c *CompositionRoot) CreateListOrderHistoryQueryHandler() (queries.ListOrderHistoryQueryHandler, error) {
	return queries.NewListOrderHistoryQueryHandler(c.ledger, c.workflow.History)
}

func (c *CompositionRoot) CreateListProductsQueryHandler() (queries.ListProductsQueryHandler, error) {
	return queries.NewListProductsQueryHandler(c.ledger)
}

func (c *CompositionRoot) CreateGetProductQueryHandler() (queries.GetProductQueryHandler, error) {
	return queries.NewGetProductQueryHandler(c.ledger)
}

func (c *CompositionRoot) CreateCheckStockQueryHandler() (queries.CheckStockQueryHandler, error) {
	return queries.NewCheckStockQueryHandler(c.workflow.Stock)
}

// NewRouter wires every use case into the echo router.
func (c *CompositionRoot) NewRouter() (*echo.Echo, error) {
	var (
		h    httpin.Handlers
		errs []error
	)
	collect := func(err error) { errs = append(errs, err) }

	var err error
	h.CreateOrder, err = c.CreateCreateOrderCommandHandler()
	collect(err)
	h.CancelOrder, err = c.CreateCancelOrderCommandHandler()
	collect(err)
	h.ResolveCallback, err = c.CreateResolveCallbackCommandHandler()
	collect(err)
	h.CreateProduct, err = c.CreateCreateProductCommandHandler()
	collect(err)
	h.RestockProduct, err = c.CreateRestockProductCommandHandler()
	collect(err)
	h.UpdateProduct, err = c.CreateUpdateProductCommandHandler()
	collect(err)
	h.DeleteProduct, err = c.CreateDeleteProductCommandHandler()
	collect(err)
	h.GetOrder, err = c.CreateGetOrderQueryHandler()
	collect(err)
	h.ListOrders, err = c.CreateListOrdersQueryHandler()
	collect(err)
	h.ListOrderHistory, err = c.CreateListOrderHistoryQueryHandler()
	collect(err)
	h.ListProducts, err = c.CreateListProductsQueryHandler()
	collect(err)
	h.GetProduct, err = c.CreateGetProductQueryHandler()
	collect(err)
	h.CheckStock, err = c.CreateCheckStockQueryHandler()
	collect(err)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return httpin.NewRouter(httpin.NewServer(h), c.authorizer, c.logger)
}

// NewJobManager builds the settlement and expiry jobs.
func (c *CompositionRoot) NewJobManager() (*jobs.JobManager, error) {
	settle, err := c.CreateSettleCallbacksCommandHandler()
	if err != nil {
		return nil, err
	}
	expire, err := c.CreateExpireCallbacksCommandHandler()
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(jobs.Schedules{
		Settlement: c.configs.SettlementSchedule,
		Expiry:     c.configs.ExpirySchedule,
	}, settle, expire, c.configs.SettlementGrace, c.logger)
}

// Close releases the database pool and the Kafka writer.
func (c *CompositionRoot) Close() error {
	var joined error
	for i := len(c.closers) - 1; i >= 0; i-- {
		joined = errors.Join(joined, c.closers[i]())
	}
	c.closers = nil
	return joined
}
