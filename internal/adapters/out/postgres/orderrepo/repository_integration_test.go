package orderrepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.Require().NoError(postgres_adapter.Migrate(database.DB))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.repository = orderrepo.NewGormOrderRepository(suite.database.DB)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) id(v int64) kernel.ID {
	out, err := kernel.NewID(v)
	suite.Require().NoError(err)
	return out
}

func (suite *OrderRepositoryIntegrationTestSuite) qty(v string) kernel.Quantity {
	out, err := kernel.QuantityFromString(v)
	suite.Require().NoError(err)
	return out
}

// newAggregate builds order id of client with one line item (id*10, product)
// allocated to each producer in turn with the same quantity.
func (suite *OrderRepositoryIntegrationTestSuite) newAggregate(
	id, client, product int64, placedAt time.Time, quantity string, producers ...int64,
) *order.Aggregate {
	header, err := order.NewOrder(suite.id(id), suite.id(client), placedAt)
	suite.Require().NoError(err)

	total := kernel.ZeroQuantity()
	allocs := make([]*order.Allocation, 0, len(producers))
	for i, producer := range producers {
		a, err := order.NewAllocation(suite.id(id*100+int64(i)), suite.id(id*10), suite.id(producer), suite.qty(quantity))
		suite.Require().NoError(err)
		allocs = append(allocs, a)
		total = total.Add(a.Quantity())
	}
	li, err := order.NewLineItem(suite.id(id*10), suite.id(id), suite.id(product), total)
	suite.Require().NoError(err)

	agg, err := order.NewAggregate(header, []*order.LineItem{li}, allocs)
	suite.Require().NoError(err)
	return agg
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSaveAndGet() {
	ctx := context.Background()
	placedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	agg := suite.newAggregate(1, 5, 100, placedAt, "2.125", 1, 2)

	suite.Require().NoError(suite.repository.Save(ctx, agg))

	loaded, err := suite.repository.Get(ctx, suite.id(1))
	suite.Require().NoError(err)
	suite.True(agg.IsEqual(loaded))
	suite.True(placedAt.Equal(loaded.Order().PlacedAt()))
	suite.Equal("4.25", loaded.LineItems()[0].Quantity().String())
	suite.Len(loaded.Allocations(), 2)

	exists, err := suite.repository.Exists(ctx, suite.id(1))
	suite.Require().NoError(err)
	suite.True(exists)
	exists, err = suite.repository.LineItemExists(ctx, suite.id(10))
	suite.Require().NoError(err)
	suite.True(exists)
	exists, err = suite.repository.AllocationExists(ctx, suite.id(101))
	suite.Require().NoError(err)
	suite.True(exists)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), suite.id(9999))
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
	suite.Equal("order", notFound.Kind)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSave_UpsertsChangedQuantities() {
	ctx := context.Background()
	placedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.repository.Save(ctx, suite.newAggregate(1, 5, 100, placedAt, "3", 1, 2)))

	// Drop the second allocation, then save the smaller replacement.
	suite.Require().NoError(suite.repository.DeleteAllocation(ctx, suite.id(101)))
	replacement := suite.newAggregate(1, 5, 100, placedAt, "1.5", 1)
	suite.Require().NoError(suite.repository.Save(ctx, replacement))

	loaded, err := suite.repository.Get(ctx, suite.id(1))
	suite.Require().NoError(err)
	suite.True(replacement.IsEqual(loaded))
	suite.Require().Len(loaded.Allocations(), 1)
	suite.Equal("1.5", loaded.Allocations()[0].Quantity().String())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestDelete_RemovesEveryPart() {
	ctx := context.Background()
	placedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.repository.Save(ctx, suite.newAggregate(1, 5, 100, placedAt, "1", 1, 2)))

	suite.Require().NoError(suite.repository.Delete(ctx, suite.id(1)))

	exists, err := suite.repository.Exists(ctx, suite.id(1))
	suite.Require().NoError(err)
	suite.False(exists)
	exists, err = suite.repository.LineItemExists(ctx, suite.id(10))
	suite.Require().NoError(err)
	suite.False(exists)
	exists, err = suite.repository.AllocationExists(ctx, suite.id(100))
	suite.Require().NoError(err)
	suite.False(exists)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestLists() {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	suite.Require().NoError(suite.repository.Save(ctx, suite.newAggregate(3, 5, 100, base.Add(2*time.Hour), "1", 1)))
	suite.Require().NoError(suite.repository.Save(ctx, suite.newAggregate(1, 5, 101, base, "1", 2)))
	suite.Require().NoError(suite.repository.Save(ctx, suite.newAggregate(2, 6, 100, base.Add(time.Hour), "1", 1, 2)))

	ids := func(aggs []*order.Aggregate) []int64 {
		out := make([]int64, 0, len(aggs))
		for _, a := range aggs {
			out = append(out, a.ID().Int64())
		}
		return out
	}

	byClient, err := suite.repository.ListByClient(ctx, suite.id(5))
	suite.Require().NoError(err)
	suite.Equal([]int64{1, 3}, ids(byClient))

	byProducer, err := suite.repository.ListByProducer(ctx, suite.id(1))
	suite.Require().NoError(err)
	suite.Equal([]int64{2, 3}, ids(byProducer))

	byProduct, err := suite.repository.ListByProduct(ctx, suite.id(100))
	suite.Require().NoError(err)
	suite.Equal([]int64{2, 3}, ids(byProduct))

	none, err := suite.repository.ListByClient(ctx, suite.id(7))
	suite.Require().NoError(err)
	suite.Empty(none)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
