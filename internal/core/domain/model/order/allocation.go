package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrAllocationIsNotConstructed is returned when an Allocation was not created via NewAllocation.
var ErrAllocationIsNotConstructed = errors.New("Allocation must be created via NewAllocation constructor")

// Allocation is the part of a line item fulfilled by a single producer.
// Creating an allocation debits the producer's stock of the line item's product;
// removing it credits the same quantity back.
type Allocation struct {
	id         kernel.ID
	lineItemID kernel.ID
	producerID kernel.ID
	quantity   kernel.Quantity

	isConstructed bool
}

// NewAllocation creates an allocation of quantity from producerID for lineItemID.
func NewAllocation(id, lineItemID, producerID kernel.ID, quantity kernel.Quantity) (*Allocation, error) {
	a := &Allocation{isConstructed: true}

	if err := errors.Join(
		a.setID(id),
		a.setLineItemID(lineItemID),
		a.setProducerID(producerID),
		a.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the Allocation was created via NewAllocation.
func (a *Allocation) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAllocationIsNotConstructed
	}
	return nil
}

// ID returns the allocation identifier.
func (a *Allocation) ID() kernel.ID { return a.id }

// LineItemID returns the identifier of the owning line item.
func (a *Allocation) LineItemID() kernel.ID { return a.lineItemID }

// ProducerID returns the identifier of the fulfilling producer.
func (a *Allocation) ProducerID() kernel.ID { return a.producerID }

// Quantity returns the allocated quantity.
func (a *Allocation) Quantity() kernel.Quantity { return a.quantity }

// IsEqual compares two allocations by value.
func (a *Allocation) IsEqual(other *Allocation) bool {
	return other != nil &&
		a.id == other.id &&
		a.lineItemID == other.lineItemID &&
		a.producerID == other.producerID &&
		a.quantity.Equal(other.quantity)
}

func (a *Allocation) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Allocation) setLineItemID(lineItemID kernel.ID) error {
	if err := lineItemID.Validate(); err != nil {
		return err
	}
	a.lineItemID = lineItemID
	return nil
}

func (a *Allocation) setProducerID(producerID kernel.ID) error {
	if err := producerID.Validate(); err != nil {
		return err
	}
	a.producerID = producerID
	return nil
}

func (a *Allocation) setQuantity(quantity kernel.Quantity) error {
	if err := quantity.Validate(); err != nil {
		return err
	}
	a.quantity = quantity
	return nil
}
