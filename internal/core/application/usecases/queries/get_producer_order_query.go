package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetProducerOrderQueryIsNotConstructed = errors.New(
		"GetProducerOrderQuery must be created via NewGetProducerOrderQuery constructor",
	)
	ErrListProducerOrdersQueryIsNotConstructed = errors.New(
		"ListProducerOrdersQuery must be created via NewListProducerOrdersQuery constructor",
	)
)

// GetProducerOrderQuery returns the part of an order a producer fulfils:
// the header, the producer's allocations and the line items they serve.
type GetProducerOrderQuery struct {
	producerID kernel.ID
	orderID    kernel.ID

	guard guard.ConstructorGuard
}

// NewGetProducerOrderQuery creates the query.
func NewGetProducerOrderQuery(producerID, orderID kernel.ID) (GetProducerOrderQuery, error) {
	if err := errors.Join(producerID.Validate(), orderID.Validate()); err != nil {
		return GetProducerOrderQuery{}, err
	}
	return GetProducerOrderQuery{
		producerID: producerID,
		orderID:    orderID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetProducerOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetProducerOrderQueryIsNotConstructed)
}

func (q GetProducerOrderQuery) ProducerID() kernel.ID { return q.producerID }
func (q GetProducerOrderQuery) OrderID() kernel.ID    { return q.orderID }

// ListProducerOrdersQuery returns the producer-scoped view of every order the producer takes part in.
type ListProducerOrdersQuery struct {
	producerID kernel.ID

	guard guard.ConstructorGuard
}

// NewListProducerOrdersQuery creates the query.
func NewListProducerOrdersQuery(producerID kernel.ID) (ListProducerOrdersQuery, error) {
	if err := producerID.Validate(); err != nil {
		return ListProducerOrdersQuery{}, err
	}
	return ListProducerOrdersQuery{producerID: producerID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListProducerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListProducerOrdersQueryIsNotConstructed)
}

func (q ListProducerOrdersQuery) ProducerID() kernel.ID { return q.producerID }
