package services_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/party"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDistanceOracle struct {
	mock.Mock
}

func (m *MockDistanceOracle) Distance(ctx context.Context, from, to kernel.Location) (kernel.Distance, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(kernel.Distance), args.Error(1)
}

// world is an in-test reference data set satisfying every lookup of the validator.
type world struct {
	clients     map[kernel.ID]*party.Client
	producers   map[kernel.ID]*party.Producer
	products    map[kernel.ID]bool
	lineItems   map[kernel.ID]bool
	allocations map[kernel.ID]bool
	stock       map[stock.Key]kernel.Quantity
	failWith    error
}

func newWorld() *world {
	return &world{
		clients:     map[kernel.ID]*party.Client{},
		producers:   map[kernel.ID]*party.Producer{},
		products:    map[kernel.ID]bool{},
		lineItems:   map[kernel.ID]bool{},
		allocations: map[kernel.ID]bool{},
		stock:       map[stock.Key]kernel.Quantity{},
	}
}

type clientLookup struct{ *world }

func (w clientLookup) Get(_ context.Context, id kernel.ID) (*party.Client, error) {
	if w.failWith != nil {
		return nil, w.failWith
	}
	if c, ok := w.clients[id]; ok {
		return c, nil
	}
	return nil, errs.NewObjectNotFoundError("client", id)
}

type producerLookup struct{ *world }

func (w producerLookup) Get(_ context.Context, id kernel.ID) (*party.Producer, error) {
	if p, ok := w.producers[id]; ok {
		return p, nil
	}
	return nil, errs.NewObjectNotFoundError("producer", id)
}

type productLookup struct{ *world }

func (w productLookup) Exists(_ context.Context, id kernel.ID) (bool, error) {
	return w.products[id], nil
}

type orderLookup struct{ *world }

func (w orderLookup) LineItemExists(_ context.Context, id kernel.ID) (bool, error) {
	return w.lineItems[id], nil
}

func (w orderLookup) AllocationExists(_ context.Context, id kernel.ID) (bool, error) {
	return w.allocations[id], nil
}

type stockLookup struct{ *world }

func (w stockLookup) Get(_ context.Context, key stock.Key) (stock.Entry, error) {
	q, ok := w.stock[key]
	if !ok {
		return stock.Entry{}, errs.NewObjectNotFoundError("stock", key)
	}
	return stock.NewEntry(key, q)
}

func (w *world) validator(t *testing.T, oracle services.DistanceOracle, policy services.QuantityPolicy) *services.Validator {
	t.Helper()
	gate, err := services.NewDistanceGate(oracle)
	require.NoError(t, err)
	v, err := services.NewValidator(services.ValidatorDeps{
		Clients:   clientLookup{w},
		Producers: producerLookup{w},
		Products:  productLookup{w},
		Orders:    orderLookup{w},
		Stock:     stockLookup{w},
		Gate:      gate,
		Policy:    policy,
	})
	require.NoError(t, err)
	return v
}

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

func km(t *testing.T, v float64) kernel.Distance {
	t.Helper()
	out, err := kernel.NewDistance(v)
	require.NoError(t, err)
	return out
}

func loc(t *testing.T, lat, lon float64) kernel.Location {
	t.Helper()
	out, err := kernel.NewLocation(lat, lon)
	require.NoError(t, err)
	return out
}

func key(t *testing.T, producer, product int64) stock.Key {
	t.Helper()
	k, err := stock.NewKey(id(t, producer), id(t, product))
	require.NoError(t, err)
	return k
}

// aggregateSpec describes an aggregate compactly: line items as {id, product, quantity}
// and allocations as {id, lineItem, producer, quantity}.
type (
	itemSpec  struct{ id, product int64; quantity string }
	allocSpec struct{ id, lineItem, producer int64; quantity string }
)

func buildAggregate(t *testing.T, orderID, clientID int64, items []itemSpec, allocs []allocSpec) *order.Aggregate {
	t.Helper()
	header, err := order.NewOrder(id(t, orderID), id(t, clientID), time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	lineItems := make([]*order.LineItem, 0, len(items))
	for _, it := range items {
		li, err := order.NewLineItem(id(t, it.id), id(t, orderID), id(t, it.product), qty(t, it.quantity))
		require.NoError(t, err)
		lineItems = append(lineItems, li)
	}
	allocations := make([]*order.Allocation, 0, len(allocs))
	for _, al := range allocs {
		a, err := order.NewAllocation(id(t, al.id), id(t, al.lineItem), id(t, al.producer), qty(t, al.quantity))
		require.NoError(t, err)
		allocations = append(allocations, a)
	}

	agg, err := order.NewAggregate(header, lineItems, allocations)
	require.NoError(t, err)
	return agg
}
