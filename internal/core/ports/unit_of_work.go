package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// Each operation creates its own unit of work.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Every repository it hands out is bound to the transaction started by Begin,
// so stock debits and record writes of one operation commit or roll back together.
type UnitOfWork interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Calling it after a successful Commit is a no-op.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	StockLedger() StockLedger
	ClientRepository() ClientRepository
	ProducerRepository() ProducerRepository
	ProductRepository() ProductRepository
}
