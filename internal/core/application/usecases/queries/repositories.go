// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Every handler reads through a unit of work that is rolled back when the query ends,
// so one query sees one consistent snapshot of the store.
package queries

import (
	"context"

	"fulfillment/internal/core/ports"
)

// ReadUoW is the part of a unit of work a query needs.
type ReadUoW interface {
	Begin(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() ports.OrderRepository
	StockLedger() ports.StockLedger
	ProducerRepository() ports.ProducerRepository
	ProductRepository() ports.ProductRepository
}

// ReadUoWFactory creates read units of work.
type ReadUoWFactory interface {
	Create() ReadUoW
}

// read runs fn inside a unit of work that is always rolled back.
func read[T any](ctx context.Context, factory ReadUoWFactory, fn func(uow ReadUoW) (T, error)) (T, error) {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		var zero T
		return zero, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()
	return fn(uow)
}
