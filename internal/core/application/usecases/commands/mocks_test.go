package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/party"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Aggregate, error) {
	args := m.Called(ctx, id)
	agg, _ := args.Get(0).(*order.Aggregate)
	return agg, args.Error(1)
}

func (m *MockOrderRepository) Exists(ctx context.Context, id kernel.ID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) LineItemExists(ctx context.Context, id kernel.ID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) AllocationExists(ctx context.Context, id kernel.ID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, aggregate *order.Aggregate) error {
	return m.Called(ctx, aggregate).Error(0)
}

func (m *MockOrderRepository) DeleteLineItem(ctx context.Context, id kernel.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) DeleteAllocation(ctx context.Context, id kernel.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) ListByClient(ctx context.Context, id kernel.ID) ([]*order.Aggregate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]*order.Aggregate), args.Error(1)
}

func (m *MockOrderRepository) ListByProducer(ctx context.Context, id kernel.ID) ([]*order.Aggregate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]*order.Aggregate), args.Error(1)
}

func (m *MockOrderRepository) ListByProduct(ctx context.Context, id kernel.ID) ([]*order.Aggregate, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]*order.Aggregate), args.Error(1)
}

type MockStockLedger struct{ mock.Mock }

func (m *MockStockLedger) Get(ctx context.Context, key stock.Key) (stock.Entry, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(stock.Entry), args.Error(1)
}

func (m *MockStockLedger) Debit(ctx context.Context, key stock.Key, q kernel.Quantity) error {
	return m.Called(ctx, key, q).Error(0)
}

func (m *MockStockLedger) Credit(ctx context.Context, key stock.Key, q kernel.Quantity) error {
	return m.Called(ctx, key, q).Error(0)
}

func (m *MockStockLedger) ListByProduct(ctx context.Context, productID kernel.ID) ([]stock.Entry, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]stock.Entry), args.Error(1)
}

func (m *MockStockLedger) List(ctx context.Context) ([]stock.Entry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]stock.Entry), args.Error(1)
}

type MockClientRepository struct{ mock.Mock }

func (m *MockClientRepository) Get(ctx context.Context, id kernel.ID) (*party.Client, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*party.Client)
	return c, args.Error(1)
}

func (m *MockClientRepository) Add(ctx context.Context, c *party.Client) error {
	return m.Called(ctx, c).Error(0)
}

type MockProducerRepository struct{ mock.Mock }

func (m *MockProducerRepository) Get(ctx context.Context, id kernel.ID) (*party.Producer, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*party.Producer)
	return p, args.Error(1)
}

func (m *MockProducerRepository) Add(ctx context.Context, p *party.Producer) error {
	return m.Called(ctx, p).Error(0)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Exists(ctx context.Context, id kernel.ID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Add(ctx context.Context, id kernel.ID, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

type MockUoW struct {
	mock.Mock

	orders    *MockOrderRepository
	ledger    *MockStockLedger
	clients   *MockClientRepository
	producers *MockProducerRepository
	products  *MockProductRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:    new(MockOrderRepository),
		ledger:    new(MockStockLedger),
		clients:   new(MockClientRepository),
		producers: new(MockProducerRepository),
		products:  new(MockProductRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository       { return m.orders }
func (m *MockUoW) StockLedger() ports.StockLedger               { return m.ledger }
func (m *MockUoW) ClientRepository() ports.ClientRepository     { return m.clients }
func (m *MockUoW) ProducerRepository() ports.ProducerRepository { return m.producers }
func (m *MockUoW) ProductRepository() ports.ProductRepository   { return m.products }

func (m *MockUoW) assertAll(t *testing.T) {
	t.Helper()
	m.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.ledger.AssertExpectations(t)
	m.clients.AssertExpectations(t)
	m.producers.AssertExpectations(t)
	m.products.AssertExpectations(t)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.FulfillmentUoW {
	return m.Called().Get(0).(commands.FulfillmentUoW)
}

type MockStockUoWFactory struct{ mock.Mock }

func (m *MockStockUoWFactory) Create() commands.StockUoW {
	return m.Called().Get(0).(commands.StockUoW)
}

type MockDistanceOracle struct{ mock.Mock }

func (m *MockDistanceOracle) Distance(ctx context.Context, from, to kernel.Location) (kernel.Distance, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(kernel.Distance), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, event order.ChangedEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockRecorder struct{ mock.Mock }

func (m *MockRecorder) ObserveOperation(operation string, err error, elapsed time.Duration) {
	m.Called(operation, err, elapsed)
}

func (m *MockRecorder) StockDebited(movements []stock.Movement)  { m.Called(movements) }
func (m *MockRecorder) StockCredited(movements []stock.Movement) { m.Called(movements) }

// fixture values shared by the handler tests: client 5, producer 1 with radius 10km
// located 4km from the client, product 100.
type fixture struct {
	client   *party.Client
	producer *party.Producer
	oracle   *MockDistanceOracle
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clientLoc, _ := kernel.NewLocation(45.76, 4.83)
	producerLoc, _ := kernel.NewLocation(45.79, 4.83)
	radius, _ := kernel.NewDistance(10)
	distance, _ := kernel.NewDistance(4)

	client, err := party.NewClient(id(t, 5), "C5", clientLoc)
	require.NoError(t, err)
	producer, err := party.NewProducer(id(t, 1), "P1", producerLoc, radius)
	require.NoError(t, err)

	oracle := new(MockDistanceOracle)
	oracle.On("Distance", mock.Anything, producerLoc, clientLoc).Return(distance, nil)
	return fixture{client: client, producer: producer, oracle: oracle}
}

func (f fixture) validators(t *testing.T) *commands.ValidatorFactory {
	t.Helper()
	gate, err := services.NewDistanceGate(f.oracle)
	require.NoError(t, err)
	v, err := commands.NewValidatorFactory(gate, services.QuantityPolicyNotExceed)
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

func key(t *testing.T, producer, product int64) stock.Key {
	t.Helper()
	k, err := stock.NewKey(id(t, producer), id(t, product))
	require.NoError(t, err)
	return k
}

func entry(t *testing.T, k stock.Key, available string) stock.Entry {
	t.Helper()
	e, err := stock.NewEntry(k, qty(t, available))
	require.NoError(t, err)
	return e
}

// buildAggregate creates order 1 of client 5 with line item 10 (product 100) and the
// given allocations of producer 1, as {id: quantity} pairs in order.
func buildAggregate(t *testing.T, requested string, allocations ...allocation) *order.Aggregate {
	t.Helper()
	header, err := order.NewOrder(id(t, 1), id(t, 5), time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	li, err := order.NewLineItem(id(t, 10), id(t, 1), id(t, 100), qty(t, requested))
	require.NoError(t, err)

	allocs := make([]*order.Allocation, 0, len(allocations))
	for _, a := range allocations {
		al, err := order.NewAllocation(id(t, a.id), id(t, 10), id(t, 1), qty(t, a.quantity))
		require.NoError(t, err)
		allocs = append(allocs, al)
	}

	agg, err := order.NewAggregate(header, []*order.LineItem{li}, allocs)
	require.NoError(t, err)
	return agg
}

type allocation struct {
	id       int64
	quantity string
}
