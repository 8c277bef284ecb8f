package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func byID[T interface{ ID() kernel.ID }](a, b T) int {
	return cmp.Compare(a.ID().Int64(), b.ID().Int64())
}

func (r *orderRepository) Get(_ context.Context, id kernel.ID) (*order.Aggregate, error) {
	s, err := r.uow.current()
	if err != nil {
		return nil, err
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return s.aggregate(o)
}

func (r *orderRepository) Exists(_ context.Context, id kernel.ID) (bool, error) {
	s, err := r.uow.current()
	if err != nil {
		return false, err
	}
	_, ok := s.orders[id]
	return ok, nil
}

func (r *orderRepository) LineItemExists(_ context.Context, id kernel.ID) (bool, error) {
	s, err := r.uow.current()
	if err != nil {
		return false, err
	}
	_, ok := s.lineItems[id]
	return ok, nil
}

func (r *orderRepository) AllocationExists(_ context.Context, id kernel.ID) (bool, error) {
	s, err := r.uow.current()
	if err != nil {
		return false, err
	}
	_, ok := s.allocations[id]
	return ok, nil
}

func (r *orderRepository) Save(_ context.Context, aggregate *order.Aggregate) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	s, err := r.uow.current()
	if err != nil {
		return err
	}
	if _, ok := s.clients[aggregate.ClientID()]; !ok {
		return fmt.Errorf("save order %s: %w", aggregate.ID(), errs.NewObjectNotFoundError("client", aggregate.ClientID()))
	}

	s.orders[aggregate.ID()] = aggregate.Order()
	for _, li := range aggregate.LineItems() {
		s.lineItems[li.ID()] = li
	}
	for _, a := range aggregate.Allocations() {
		s.allocations[a.ID()] = a
	}
	return nil
}

func (r *orderRepository) DeleteLineItem(_ context.Context, id kernel.ID) error {
	s, err := r.uow.current()
	if err != nil {
		return err
	}
	for _, a := range s.allocations {
		if a.LineItemID() == id {
			return fmt.Errorf("delete line item %s: referenced by allocation %s", id, a.ID())
		}
	}
	delete(s.lineItems, id)
	return nil
}

func (r *orderRepository) DeleteAllocation(_ context.Context, id kernel.ID) error {
	s, err := r.uow.current()
	if err != nil {
		return err
	}
	delete(s.allocations, id)
	return nil
}

func (r *orderRepository) Delete(_ context.Context, id kernel.ID) error {
	s, err := r.uow.current()
	if err != nil {
		return err
	}
	for liID, li := range s.lineItems {
		if li.OrderID() != id {
			continue
		}
		for aID, a := range s.allocations {
			if a.LineItemID() == liID {
				delete(s.allocations, aID)
			}
		}
		delete(s.lineItems, liID)
	}
	delete(s.orders, id)
	return nil
}

func (r *orderRepository) ListByClient(_ context.Context, clientID kernel.ID) ([]*order.Aggregate, error) {
	s, err := r.uow.current()
	if err != nil {
		return nil, err
	}
	return s.list(func(o *order.Order) bool { return o.ClientID() == clientID })
}

func (r *orderRepository) ListByProducer(_ context.Context, producerID kernel.ID) ([]*order.Aggregate, error) {
	s, err := r.uow.current()
	if err != nil {
		return nil, err
	}
	matching := make(map[kernel.ID]struct{})
	for _, a := range s.allocations {
		if a.ProducerID() != producerID {
			continue
		}
		if li, ok := s.lineItems[a.LineItemID()]; ok {
			matching[li.OrderID()] = struct{}{}
		}
	}
	return s.list(func(o *order.Order) bool {
		_, ok := matching[o.ID()]
		return ok
	})
}

func (r *orderRepository) ListByProduct(_ context.Context, productID kernel.ID) ([]*order.Aggregate, error) {
	s, err := r.uow.current()
	if err != nil {
		return nil, err
	}
	matching := make(map[kernel.ID]struct{})
	for _, li := range s.lineItems {
		if li.ProductID() == productID {
			matching[li.OrderID()] = struct{}{}
		}
	}
	return s.list(func(o *order.Order) bool {
		_, ok := matching[o.ID()]
		return ok
	})
}

// list assembles the aggregates of the matching orders, oldest first.
func (s *state) list(match func(*order.Order) bool) ([]*order.Aggregate, error) {
	headers := make([]*order.Order, 0)
	for _, o := range s.orders {
		if match(o) {
			headers = append(headers, o)
		}
	}
	slices.SortFunc(headers, func(a, b *order.Order) int {
		if c := a.PlacedAt().Compare(b.PlacedAt()); c != 0 {
			return c
		}
		return byID(a, b)
	})

	result := make([]*order.Aggregate, 0, len(headers))
	for _, o := range headers {
		agg, err := s.aggregate(o)
		if err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	return result, nil
}

func (s *state) aggregate(o *order.Order) (*order.Aggregate, error) {
	lineItems := make([]*order.LineItem, 0)
	owned := make(map[kernel.ID]struct{})
	for _, li := range s.lineItems {
		if li.OrderID() == o.ID() {
			lineItems = append(lineItems, li)
			owned[li.ID()] = struct{}{}
		}
	}
	allocations := make([]*order.Allocation, 0)
	for _, a := range s.allocations {
		if _, ok := owned[a.LineItemID()]; ok {
			allocations = append(allocations, a)
		}
	}
	slices.SortFunc(lineItems, byID[*order.LineItem])
	slices.SortFunc(allocations, byID[*order.Allocation])
	return order.NewAggregate(o, lineItems, allocations)
}
