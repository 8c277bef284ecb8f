package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The aggregate is never stored as a unit: the header, line items and allocations
// live in three record sets that the repository reads and writes together.
type OrderRepository interface {
	// Get loads the full aggregate of an order.
	// Returns errs.ObjectNotFoundError with kind "order" when the header is absent.
	Get(ctx context.Context, id kernel.ID) (*order.Aggregate, error)

	// Exists reports whether an order header is stored under id.
	Exists(ctx context.Context, id kernel.ID) (bool, error)

	// LineItemExists reports whether a line item is stored under id, in any order.
	LineItemExists(ctx context.Context, id kernel.ID) (bool, error)

	// AllocationExists reports whether an allocation is stored under id, in any order.
	AllocationExists(ctx context.Context, id kernel.ID) (bool, error)

	// Save upserts the header, every line item and every allocation of the aggregate.
	// Records that are stored but missing from the aggregate are left untouched.
	Save(ctx context.Context, aggregate *order.Aggregate) error

	// DeleteLineItem removes a stored line item.
	DeleteLineItem(ctx context.Context, id kernel.ID) error

	// DeleteAllocation removes a stored allocation.
	DeleteAllocation(ctx context.Context, id kernel.ID) error

	// Delete removes the allocations, the line items and then the header of an order.
	Delete(ctx context.Context, id kernel.ID) error

	OrderReader
}

// OrderReader lists aggregates for the read side.
type OrderReader interface {
	// ListByClient returns the orders placed by a client, oldest first.
	ListByClient(ctx context.Context, clientID kernel.ID) ([]*order.Aggregate, error)

	// ListByProducer returns the orders holding at least one allocation of a producer.
	ListByProducer(ctx context.Context, producerID kernel.ID) ([]*order.Aggregate, error)

	// ListByProduct returns the orders having a line item of a product.
	ListByProduct(ctx context.Context, productID kernel.ID) ([]*order.Aggregate, error)
}
