// Package memory provides an in-process implementation of the unit of work and the
// repositories behind it. It backs the service in dev mode and serves as a real store in tests.
//
// Units of work are serialized: Begin takes the store lock and snapshots the state,
// Commit keeps the changes and Rollback restores the snapshot. Repositories may only be
// used between Begin and Commit or Rollback.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/party"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/ports"
)

// ErrNoActiveTransaction is returned when a repository or Commit is used outside Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

// state holds every record set. Domain objects are immutable, so copying the maps
// is enough to snapshot it.
type state struct {
	orders      map[kernel.ID]*order.Order
	lineItems   map[kernel.ID]*order.LineItem
	allocations map[kernel.ID]*order.Allocation
	stock       map[stock.Key]kernel.Quantity
	clients     map[kernel.ID]*party.Client
	producers   map[kernel.ID]*party.Producer
	products    map[kernel.ID]string
}

func newState() state {
	return state{
		orders:      make(map[kernel.ID]*order.Order),
		lineItems:   make(map[kernel.ID]*order.LineItem),
		allocations: make(map[kernel.ID]*order.Allocation),
		stock:       make(map[stock.Key]kernel.Quantity),
		clients:     make(map[kernel.ID]*party.Client),
		producers:   make(map[kernel.ID]*party.Producer),
		products:    make(map[kernel.ID]string),
	}
}

func (s state) clone() state {
	return state{
		orders:      maps.Clone(s.orders),
		lineItems:   maps.Clone(s.lineItems),
		allocations: maps.Clone(s.allocations),
		stock:       maps.Clone(s.stock),
		clients:     maps.Clone(s.clients),
		producers:   maps.Clone(s.producers),
		products:    maps.Clone(s.products),
	}
}

// Store is the shared in-process state.
type Store struct {
	mu    sync.Mutex
	state state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a factory for store.
func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create returns a fresh unit of work.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork is a serialized transaction over a Store.
type UnitOfWork struct {
	store    *Store
	snapshot state
	active   bool
}

// Begin locks the store and snapshots its state. Calling Begin twice is a no-op.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	u.snapshot = u.store.state.clone()
	u.active = true
	return nil
}

// Commit keeps the changes and releases the store.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return ErrNoActiveTransaction
	}
	u.release()
	return nil
}

// Rollback restores the snapshot and releases the store. It is a no-op after Commit.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return nil
	}
	u.store.state = u.snapshot
	u.release()
	return nil
}

func (u *UnitOfWork) release() {
	u.active = false
	u.snapshot = state{}
	u.store.mu.Unlock()
}

// current returns the live state of an active transaction.
func (u *UnitOfWork) current() (*state, error) {
	if !u.active {
		return nil, ErrNoActiveTransaction
	}
	return &u.store.state, nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

func (u *UnitOfWork) StockLedger() ports.StockLedger {
	return &stockLedger{uow: u}
}

func (u *UnitOfWork) ClientRepository() ports.ClientRepository {
	return &clientRepository{uow: u}
}

func (u *UnitOfWork) ProducerRepository() ports.ProducerRepository {
	return &producerRepository{uow: u}
}

func (u *UnitOfWork) ProductRepository() ports.ProductRepository {
	return &productRepository{uow: u}
}
