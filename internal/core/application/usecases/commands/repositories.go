// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Every repository handed out by a unit of work is bound to its transaction.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// StockLedgerFactory provides access to the stock ledger within a transaction.
	StockLedgerFactory interface {
		StockLedger() ports.StockLedger
	}

	// PartyRepoFactory provides access to clients, producers and products within a transaction.
	PartyRepoFactory interface {
		ClientRepository() ports.ClientRepository
		ProducerRepository() ports.ProducerRepository
		ProductRepository() ports.ProductRepository
	}

	// FulfillmentUoW manages transactions spanning an order aggregate and the stock it moves.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   plan, err := validator.Validate(ctx, aggregate, services.CreateScope())
	//   // debit uow.StockLedger(), save through uow.OrderRepository()
	//
	//   err = uow.Commit(ctx)
	FulfillmentUoW interface {
		TxManager
		OrderRepoFactory
		StockLedgerFactory
		PartyRepoFactory
	}

	// FulfillmentUoWFactory creates new fulfillment unit of work instances.
	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}

	// StockUoW manages transactions that only touch the ledger and reference data.
	StockUoW interface {
		TxManager
		StockLedgerFactory
		PartyRepoFactory
	}

	// StockUoWFactory creates new stock unit of work instances.
	StockUoWFactory interface {
		Create() StockUoW
	}
)
