package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/geo"
	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/party"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM unit of work against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	factory  ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(postgres_adapter.Migrate(database.DB))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(database.DB)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.seed()
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) id(v int64) kernel.ID {
	out, err := kernel.NewID(v)
	suite.Require().NoError(err)
	return out
}

func (suite *UnitOfWorkIntegrationTestSuite) qty(v string) kernel.Quantity {
	out, err := kernel.QuantityFromString(v)
	suite.Require().NoError(err)
	return out
}

func (suite *UnitOfWorkIntegrationTestSuite) key(producer, product int64) stock.Key {
	return stock.Key{ProducerID: suite.id(producer), ProductID: suite.id(product)}
}

// seed stores client 5 in Lyon, producer 1 about 4km away with a 10km radius,
// product 100 and 10 units of it at producer 1.
func (suite *UnitOfWorkIntegrationTestSuite) seed() {
	ctx := context.Background()
	clientLoc, _ := kernel.NewLocation(45.7640, 4.8357)
	producerLoc, _ := kernel.NewLocation(45.7990, 4.8357)
	radius, _ := kernel.NewDistance(10)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	client, err := party.NewClient(suite.id(5), "C5", clientLoc)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.ClientRepository().Add(ctx, client))
	producer, err := party.NewProducer(suite.id(1), "P1", producerLoc, radius)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.ProducerRepository().Add(ctx, producer))
	suite.Require().NoError(uow.ProductRepository().Add(ctx, suite.id(100), "apples"))
	suite.Require().NoError(uow.StockLedger().Credit(ctx, suite.key(1, 100), suite.qty("10")))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) available(producer, product int64) string {
	e, err := suite.factory.Create().StockLedger().Get(context.Background(), suite.key(producer, product))
	suite.Require().NoError(err)
	return e.Available().String()
}

func (suite *UnitOfWorkIntegrationTestSuite) aggregate(requested string, allocations map[int64]string) *order.Aggregate {
	header, err := order.NewOrder(suite.id(1), suite.id(5), time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	li, err := order.NewLineItem(suite.id(10), suite.id(1), suite.id(100), suite.qty(requested))
	suite.Require().NoError(err)

	var allocs []*order.Allocation
	for _, aid := range []int64{20, 21, 22} {
		q, ok := allocations[aid]
		if !ok {
			continue
		}
		a, err := order.NewAllocation(suite.id(aid), suite.id(10), suite.id(1), suite.qty(q))
		suite.Require().NoError(err)
		allocs = append(allocs, a)
	}
	agg, err := order.NewAggregate(header, []*order.LineItem{li}, allocs)
	suite.Require().NoError(err)
	return agg
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().Error(uow.Commit(ctx), "Commit without an active transaction should fail")
	suite.Require().NoError(uow.Rollback(ctx), "Rollback without an active transaction is a no-op")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsDebitAndRows() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.StockLedger().Debit(ctx, suite.key(1, 100), suite.qty("4")))
	suite.Require().NoError(uow.OrderRepository().Save(ctx, suite.aggregate("4", map[int64]string{20: "4"})))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Equal("10", suite.available(1, 100))
	exists, err := suite.factory.Create().OrderRepository().Exists(ctx, suite.id(1))
	suite.Require().NoError(err)
	suite.False(exists)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ConcurrentDebitsNeverOversell() {
	ctx := context.Background()
	const workers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := suite.factory.Create()
			if err := uow.Begin(ctx); err != nil {
				return
			}
			defer func() { _ = uow.Rollback(ctx) }()

			if err := uow.StockLedger().Debit(ctx, suite.key(1, 100), suite.qty("3")); err != nil {
				return
			}
			if err := uow.Commit(ctx); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	suite.Equal(3, succeeded)
	suite.Equal("1", suite.available(1, 100))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderLifecycleThroughCommands() {
	ctx := context.Background()
	factory := fulfillmentFactory{suite.factory}
	gate, err := services.NewDistanceGate(geo.NewHaversineOracle())
	suite.Require().NoError(err)
	validators, err := commands.NewValidatorFactory(gate, services.QuantityPolicyNotExceed)
	suite.Require().NoError(err)

	commit, _ := commands.NewCommitOrderCommandHandler(factory, validators)
	update, _ := commands.NewUpdateOrderCommandHandler(factory, validators)
	remove, _ := commands.NewDeleteOrderCommandHandler(factory)

	// 10 available, 10.001 requested: rejected without side effects.
	tooMuch, _ := commands.NewCommitOrderCommand(suite.aggregate("10.001", map[int64]string{20: "10.001"}))
	_, err = commit.Handle(ctx, tooMuch)
	suite.Require().ErrorIs(err, stock.ErrInsufficientStock)
	suite.Equal("10", suite.available(1, 100))

	created, _ := commands.NewCommitOrderCommand(suite.aggregate("10", map[int64]string{20: "6", 21: "4"}))
	_, err = commit.Handle(ctx, created)
	suite.Require().NoError(err)
	suite.Equal("0", suite.available(1, 100))

	_, err = commit.Handle(ctx, created)
	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExists)

	replaced, _ := commands.NewUpdateOrderCommand(suite.id(1), suite.aggregate("6", map[int64]string{20: "6"}))
	_, err = update.Handle(ctx, replaced)
	suite.Require().NoError(err)
	suite.Equal("4", suite.available(1, 100))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, suite.id(1))
	suite.Require().NoError(err)
	suite.Len(stored.Allocations(), 1)

	deleted, _ := commands.NewDeleteOrderCommand(suite.id(1))
	suite.Require().NoError(remove.Handle(ctx, deleted))
	suite.Equal("10", suite.available(1, 100))

	missing, _ := commands.NewDeleteOrderCommand(suite.id(9999))
	suite.Require().ErrorIs(remove.Handle(ctx, missing), errs.ErrObjectNotFound)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
