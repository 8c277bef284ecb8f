package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"
)

// StockLedger holds the available quantity per (producer, product).
type StockLedger interface {
	// Get returns the entry of key.
	// Returns errs.ObjectNotFoundError with kind "stock" when the producer does not carry the product.
	Get(ctx context.Context, key stock.Key) (stock.Entry, error)

	// Debit atomically decrements the entry when at least quantity is available.
	// Returns *stock.InsufficientStockError when the entry holds less than quantity,
	// which includes losing a race against a concurrent debit.
	Debit(ctx context.Context, key stock.Key, quantity kernel.Quantity) error

	// Credit increments the entry unconditionally, creating it when absent.
	Credit(ctx context.Context, key stock.Key, quantity kernel.Quantity) error

	// List returns every entry ordered by producer then product.
	List(ctx context.Context) ([]stock.Entry, error)

	// ListByProduct returns the entries of productID ordered by producer, that is
	// every producer carrying the product.
	ListByProduct(ctx context.Context, productID kernel.ID) ([]stock.Entry, error)
}
