package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderIDMismatch is the cause reported when a replacement carries another order id.
var ErrOrderIDMismatch = errors.New("replacement belongs to another order")

// Diff is the difference between a stored aggregate and its replacement.
type Diff struct {
	// DeletedLineItems are stored line items whose id is absent from the replacement.
	DeletedLineItems []*order.LineItem

	// RemovedAllocations are stored allocations with no equal counterpart in the
	// replacement. Their stock is credited back and their records deleted; an id that
	// reappears in the replacement is stored again when the replacement is saved.
	RemovedAllocations []*order.Allocation

	// RetainedAllocations are replacement allocations equal to a stored one, including
	// the product of their line item. They keep the stock they already hold.
	RetainedAllocations []*order.Allocation

	// AddedAllocations are replacement allocations that need a fresh debit.
	AddedAllocations []*order.Allocation

	// Credits sums the removed allocations per (producer, product).
	Credits *stock.Movements
}

// Reconcile computes the Diff between existing and incoming.
// Allocations are compared by value: id, line item, producer, quantity and the
// product drawn from stock. Both aggregates must describe the same order.
func Reconcile(existing, incoming *order.Aggregate) (*Diff, error) {
	if err := errors.Join(existing.Validate(), incoming.Validate()); err != nil {
		return nil, err
	}
	if existing.ID() != incoming.ID() {
		return nil, errs.NewValueIsInvalidErrorWithCause("orderId",
			fmt.Errorf("%w: %s != %s", ErrOrderIDMismatch, incoming.ID(), existing.ID()))
	}

	diff := &Diff{Credits: stock.NewMovements()}

	for _, li := range existing.LineItems() {
		if _, ok := incoming.LineItem(li.ID()); !ok {
			diff.DeletedLineItems = append(diff.DeletedLineItems, li)
		}
	}

	incomingByID := make(map[kernel.ID]*order.Allocation)
	for _, a := range incoming.Allocations() {
		incomingByID[a.ID()] = a
	}

	retained := make(map[kernel.ID]struct{})
	for _, old := range existing.Allocations() {
		if candidate, ok := incomingByID[old.ID()]; ok && sameAllocation(existing, old, incoming, candidate) {
			retained[old.ID()] = struct{}{}
			continue
		}

		diff.RemovedAllocations = append(diff.RemovedAllocations, old)
		product, _ := existing.ProductOf(old)
		diff.Credits.Add(stock.Key{ProducerID: old.ProducerID(), ProductID: product}, old.Quantity())
	}

	for _, a := range incoming.Allocations() {
		if _, ok := retained[a.ID()]; ok {
			diff.RetainedAllocations = append(diff.RetainedAllocations, a)
		} else {
			diff.AddedAllocations = append(diff.AddedAllocations, a)
		}
	}

	return diff, nil
}

func sameAllocation(oldAgg *order.Aggregate, old *order.Allocation, newAgg *order.Aggregate, candidate *order.Allocation) bool {
	if !old.IsEqual(candidate) {
		return false
	}
	oldProduct, _ := oldAgg.ProductOf(old)
	newProduct, _ := newAgg.ProductOf(candidate)
	return oldProduct == newProduct
}
