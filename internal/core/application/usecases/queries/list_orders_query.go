package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via one of the NewListOrdersBy constructors",
)

// OrderFilter selects which orders ListOrdersQuery returns.
type OrderFilter int

const (
	ByClient OrderFilter = iota + 1
	ByProducer
	ByProduct
)

func (f OrderFilter) String() string {
	switch f {
	case ByClient:
		return "client"
	case ByProducer:
		return "producer"
	case ByProduct:
		return "product"
	default:
		return "unknown"
	}
}

// ListOrdersQuery lists the orders related to one client, producer or product.
type ListOrdersQuery struct {
	filter OrderFilter
	id     kernel.ID

	guard guard.ConstructorGuard
}

// NewListOrdersByClientQuery lists the orders placed by a client.
func NewListOrdersByClientQuery(clientID kernel.ID) (ListOrdersQuery, error) {
	return newListOrdersQuery(ByClient, clientID)
}

// NewListOrdersByProducerQuery lists the orders holding an allocation of a producer.
func NewListOrdersByProducerQuery(producerID kernel.ID) (ListOrdersQuery, error) {
	return newListOrdersQuery(ByProducer, producerID)
}

// NewListOrdersByProductQuery lists the orders having a line item of a product.
func NewListOrdersByProductQuery(productID kernel.ID) (ListOrdersQuery, error) {
	return newListOrdersQuery(ByProduct, productID)
}

func newListOrdersQuery(filter OrderFilter, id kernel.ID) (ListOrdersQuery, error) {
	if err := id.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{filter: filter, id: id, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through a constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Filter returns what the id refers to.
func (q ListOrdersQuery) Filter() OrderFilter {
	return q.filter
}

// ID returns the client, producer or product id.
func (q ListOrdersQuery) ID() kernel.ID {
	return q.id
}
