package memory_test

import (
	"testing"
	"time"

	"fulfillment/internal/adapters/out/memory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/party"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/require"
)

func id(t *testing.T, v int64) kernel.ID {
	t.Helper()
	out, err := kernel.NewID(v)
	require.NoError(t, err)
	return out
}

func qty(t *testing.T, v string) kernel.Quantity {
	t.Helper()
	out, err := kernel.QuantityFromString(v)
	require.NoError(t, err)
	return out
}

func key(t *testing.T, producer, product int64) stock.Key {
	t.Helper()
	k, err := stock.NewKey(id(t, producer), id(t, product))
	require.NoError(t, err)
	return k
}

// seededFactory returns a factory over a store holding clients 5 and 6, producers 1 and 2
// and products 100 and 101.
func seededFactory(t *testing.T) *memory.UnitOfWorkFactory {
	t.Helper()
	ctx := t.Context()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())

	loc, err := kernel.NewLocation(45.76, 4.83)
	require.NoError(t, err)
	radius, err := kernel.NewDistance(10)
	require.NoError(t, err)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	for _, cid := range []int64{5, 6} {
		c, err := party.NewClient(id(t, cid), "client", loc)
		require.NoError(t, err)
		require.NoError(t, uow.ClientRepository().Add(ctx, c))
	}
	for _, pid := range []int64{1, 2} {
		p, err := party.NewProducer(id(t, pid), "producer", loc, radius)
		require.NoError(t, err)
		require.NoError(t, uow.ProducerRepository().Add(ctx, p))
	}
	require.NoError(t, uow.ProductRepository().Add(ctx, id(t, 100), "apples"))
	require.NoError(t, uow.ProductRepository().Add(ctx, id(t, 101), "pears"))
	require.NoError(t, uow.Commit(ctx))
	return factory
}

type allocSpec struct {
	id       int64
	item     int64
	producer int64
	quantity string
}

type itemSpec struct {
	id       int64
	product  int64
	quantity string
}

func buildAggregate(t *testing.T, orderID, clientID int64, placedAt time.Time, items []itemSpec, allocs []allocSpec) *order.Aggregate {
	t.Helper()
	header, err := order.NewOrder(id(t, orderID), id(t, clientID), placedAt)
	require.NoError(t, err)

	lineItems := make([]*order.LineItem, 0, len(items))
	for _, it := range items {
		li, err := order.NewLineItem(id(t, it.id), id(t, orderID), id(t, it.product), qty(t, it.quantity))
		require.NoError(t, err)
		lineItems = append(lineItems, li)
	}
	allocations := make([]*order.Allocation, 0, len(allocs))
	for _, a := range allocs {
		al, err := order.NewAllocation(id(t, a.id), id(t, a.item), id(t, a.producer), qty(t, a.quantity))
		require.NoError(t, err)
		allocations = append(allocations, al)
	}

	agg, err := order.NewAggregate(header, lineItems, allocations)
	require.NoError(t, err)
	return agg
}

// inTx runs fn in a committed unit of work.
func inTx(t *testing.T, factory *memory.UnitOfWorkFactory, fn func(uow ports.UnitOfWork)) {
	t.Helper()
	uow := factory.Create()
	require.NoError(t, uow.Begin(t.Context()))
	fn(uow)
	require.NoError(t, uow.Commit(t.Context()))
}
