package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrAggregateIsNotConstructed is returned when an Aggregate was not created via NewAggregate.
	ErrAggregateIsNotConstructed = errors.New("Aggregate must be created via NewAggregate constructor")

	// ErrLineItemOfAnotherOrder is the cause reported for a line item whose order id differs from the header.
	ErrLineItemOfAnotherOrder = errors.New("line item belongs to another order")

	// ErrAllocationOutsideOrder is the cause reported for an allocation referencing a line item
	// that is not part of the aggregate.
	ErrAllocationOutsideOrder = errors.New("allocation references a line item outside the order")
)

// Aggregate is an order together with its full set of line items and allocations.
//
// The aggregate is built on demand for validation, reads, updates and deletes.
// Line items and allocations keep the order in which they were supplied.
type Aggregate struct {
	order       *Order
	lineItems   []*LineItem
	allocations []*Allocation

	itemsByID map[kernel.ID]*LineItem

	isConstructed bool
}

// NewAggregate assembles an aggregate and checks its structural invariants:
//   - every line item belongs to the order
//   - every allocation belongs to one of the line items
//   - line item ids and allocation ids are unique inside the aggregate
//
// Returns ValueIsInvalidError for ownership violations and ObjectAlreadyExistsError
// for an identifier repeated inside the aggregate.
func NewAggregate(o *Order, lineItems []*LineItem, allocations []*Allocation) (*Aggregate, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	agg := &Aggregate{
		order:         o,
		lineItems:     make([]*LineItem, 0, len(lineItems)),
		allocations:   make([]*Allocation, 0, len(allocations)),
		itemsByID:     make(map[kernel.ID]*LineItem, len(lineItems)),
		isConstructed: true,
	}

	for _, li := range lineItems {
		if err := agg.addLineItem(li); err != nil {
			return nil, err
		}
	}

	seen := make(map[kernel.ID]struct{}, len(allocations))
	for _, a := range allocations {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[a.ID()]; dup {
			return nil, errs.NewObjectAlreadyExistsError("allocation", a.ID())
		}
		if _, ok := agg.itemsByID[a.LineItemID()]; !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("allocation %s", a.ID()), ErrAllocationOutsideOrder)
		}
		seen[a.ID()] = struct{}{}
		agg.allocations = append(agg.allocations, a)
	}

	return agg, nil
}

func (g *Aggregate) addLineItem(li *LineItem) error {
	if err := li.Validate(); err != nil {
		return err
	}
	if li.OrderID() != g.order.ID() {
		return errs.NewValueIsInvalidErrorWithCause(
			fmt.Sprintf("line item %s", li.ID()), ErrLineItemOfAnotherOrder)
	}
	if _, dup := g.itemsByID[li.ID()]; dup {
		return errs.NewObjectAlreadyExistsError("line item", li.ID())
	}
	g.itemsByID[li.ID()] = li
	g.lineItems = append(g.lineItems, li)
	return nil
}

// Validate ensures the Aggregate was created via NewAggregate.
func (g *Aggregate) Validate() error {
	if g == nil || !g.isConstructed {
		return ErrAggregateIsNotConstructed
	}
	return nil
}

// Order returns the header.
func (g *Aggregate) Order() *Order {
	return g.order
}

// ID returns the order identifier.
func (g *Aggregate) ID() kernel.ID {
	return g.order.ID()
}

// ClientID returns the owning client identifier.
func (g *Aggregate) ClientID() kernel.ID {
	return g.order.ClientID()
}

// LineItems returns a copy of the line item list.
func (g *Aggregate) LineItems() []*LineItem {
	out := make([]*LineItem, len(g.lineItems))
	copy(out, g.lineItems)
	return out
}

// Allocations returns a copy of the allocation list.
func (g *Aggregate) Allocations() []*Allocation {
	out := make([]*Allocation, len(g.allocations))
	copy(out, g.allocations)
	return out
}

// LineItem looks up a line item of the aggregate by id.
func (g *Aggregate) LineItem(id kernel.ID) (*LineItem, bool) {
	li, ok := g.itemsByID[id]
	return li, ok
}

// AllocationsOf groups allocations by their owning line item.
// A line item without allocations yields an empty slice.
func (g *Aggregate) AllocationsOf(lineItemID kernel.ID) []*Allocation {
	out := make([]*Allocation, 0)
	for _, a := range g.allocations {
		if a.LineItemID() == lineItemID {
			out = append(out, a)
		}
	}
	return out
}

// ProductOf returns the product drawn by an allocation, i.e. the product of its line item.
func (g *Aggregate) ProductOf(a *Allocation) (kernel.ID, bool) {
	li, ok := g.itemsByID[a.LineItemID()]
	if !ok {
		return kernel.ID{}, false
	}
	return li.ProductID(), true
}

// AllocatedQuantity sums the allocation quantities of a line item.
func (g *Aggregate) AllocatedQuantity(lineItemID kernel.ID) kernel.Quantity {
	total := kernel.ZeroQuantity()
	for _, a := range g.AllocationsOf(lineItemID) {
		total = total.Add(a.Quantity())
	}
	return total
}

// HasProducer reports whether at least one allocation is fulfilled by producerID.
func (g *Aggregate) HasProducer(producerID kernel.ID) bool {
	for _, a := range g.allocations {
		if a.ProducerID() == producerID {
			return true
		}
	}
	return false
}

// ForProducer returns the part of the aggregate a producer is involved in: the
// producer's allocations and the line items they fulfil.
func (g *Aggregate) ForProducer(producerID kernel.ID) *Aggregate {
	view := &Aggregate{
		order:         g.order,
		itemsByID:     make(map[kernel.ID]*LineItem),
		isConstructed: true,
	}
	for _, a := range g.allocations {
		if a.ProducerID() != producerID {
			continue
		}
		view.allocations = append(view.allocations, a)
		if _, ok := view.itemsByID[a.LineItemID()]; !ok {
			li := g.itemsByID[a.LineItemID()]
			view.itemsByID[li.ID()] = li
		}
	}
	for _, li := range g.lineItems {
		if _, ok := view.itemsByID[li.ID()]; ok {
			view.lineItems = append(view.lineItems, li)
		}
	}
	return view
}

// IsEqual compares two aggregates part by part, ignoring the order of line items
// and allocations.
func (g *Aggregate) IsEqual(other *Aggregate) bool {
	if other == nil || !g.order.IsEqual(other.order) {
		return false
	}
	if len(g.lineItems) != len(other.lineItems) || len(g.allocations) != len(other.allocations) {
		return false
	}
	for _, li := range g.lineItems {
		o, ok := other.itemsByID[li.ID()]
		if !ok || !li.IsEqual(o) {
			return false
		}
	}
	byID := make(map[kernel.ID]*Allocation, len(other.allocations))
	for _, a := range other.allocations {
		byID[a.ID()] = a
	}
	for _, a := range g.allocations {
		if !a.IsEqual(byID[a.ID()]) {
			return false
		}
	}
	return true
}
