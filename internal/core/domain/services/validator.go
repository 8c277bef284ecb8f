package services

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/party"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/errs"
)

type (
	// ClientFinder loads a client; a missing client is an errs.ObjectNotFoundError.
	ClientFinder interface {
		Get(ctx context.Context, id kernel.ID) (*party.Client, error)
	}

	// ProducerFinder loads a producer; a missing producer is an errs.ObjectNotFoundError.
	ProducerFinder interface {
		Get(ctx context.Context, id kernel.ID) (*party.Producer, error)
	}

	// ProductChecker answers product existence.
	ProductChecker interface {
		Exists(ctx context.Context, id kernel.ID) (bool, error)
	}

	// OrderPartChecker answers whether line item and allocation ids are already stored.
	OrderPartChecker interface {
		LineItemExists(ctx context.Context, id kernel.ID) (bool, error)
		AllocationExists(ctx context.Context, id kernel.ID) (bool, error)
	}

	// StockReader reads ledger entries; an uncarried product is an errs.ObjectNotFoundError.
	StockReader interface {
		Get(ctx context.Context, key stock.Key) (stock.Entry, error)
	}
)

// ValidatorDeps groups the lookups a Validator performs.
type ValidatorDeps struct {
	Clients   ClientFinder
	Producers ProducerFinder
	Products  ProductChecker
	Orders    OrderPartChecker
	Stock     StockReader
	Gate      *DistanceGate
	Policy    QuantityPolicy
}

// Validator checks a candidate aggregate against every business invariant and
// plans the stock debits the aggregate needs. It never mutates state.
//
// The checks, in order:
//   - the owning client exists
//   - per line item: the id is not stored elsewhere, the product exists and the
//     allocated total satisfies the quantity policy
//   - per allocation: the id is not stored elsewhere, the producer exists and can
//     deliver to the client, the producer carries the product and holds enough of it
//
// Sufficiency is checked against the cumulative quantity planned per (producer, product),
// so two allocations drawing on the same entry cannot jointly oversell it.
// The first failure stops the pass.
type Validator struct {
	deps ValidatorDeps
}

// NewValidator creates a Validator. Every dependency is required.
func NewValidator(deps ValidatorDeps) (*Validator, error) {
	var missing []error
	if deps.Clients == nil {
		missing = append(missing, errs.NewValueIsRequiredError("clients"))
	}
	if deps.Producers == nil {
		missing = append(missing, errs.NewValueIsRequiredError("producers"))
	}
	if deps.Products == nil {
		missing = append(missing, errs.NewValueIsRequiredError("products"))
	}
	if deps.Orders == nil {
		missing = append(missing, errs.NewValueIsRequiredError("orders"))
	}
	if deps.Stock == nil {
		missing = append(missing, errs.NewValueIsRequiredError("stock"))
	}
	if deps.Gate == nil {
		missing = append(missing, errs.NewValueIsRequiredError("gate"))
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}
	if deps.Policy == "" {
		deps.Policy = DefaultQuantityPolicy
	}
	return &Validator{deps: deps}, nil
}

// Scope tells the validator which parts of the aggregate are already stored
// under the same order.
type Scope struct {
	ownedLineItems   map[kernel.ID]struct{}
	ownedAllocations map[kernel.ID]struct{}
	held             map[kernel.ID]struct{}
}

// CreateScope is used for a new order: every id must be fresh and every allocation is debited.
func CreateScope() Scope {
	return Scope{}
}

// ReplaceScope is used when existing is replaced. Ids stored under existing are not
// duplicates, and the retained allocations already hold their stock so they are not debited again.
func ReplaceScope(existing *order.Aggregate, retained []*order.Allocation) Scope {
	s := Scope{
		ownedLineItems:   make(map[kernel.ID]struct{}),
		ownedAllocations: make(map[kernel.ID]struct{}),
		held:             make(map[kernel.ID]struct{}),
	}
	for _, li := range existing.LineItems() {
		s.ownedLineItems[li.ID()] = struct{}{}
	}
	for _, a := range existing.Allocations() {
		s.ownedAllocations[a.ID()] = struct{}{}
	}
	for _, a := range retained {
		s.held[a.ID()] = struct{}{}
	}
	return s
}

func (s Scope) ownsLineItem(id kernel.ID) bool {
	_, ok := s.ownedLineItems[id]
	return ok
}

func (s Scope) ownsAllocation(id kernel.ID) bool {
	_, ok := s.ownedAllocations[id]
	return ok
}

func (s Scope) holds(id kernel.ID) bool {
	_, ok := s.held[id]
	return ok
}

// Plan lists the debits a validated aggregate needs, one per (producer, product).
type Plan struct {
	debits *stock.Movements
}

// Debits returns the planned debits in the order their keys were first met.
func (p *Plan) Debits() []stock.Movement {
	return p.debits.List()
}

// Validate runs every check on aggregate and returns the debit plan.
//
// Business failures are returned as *ValidationError wrapping an errs.ObjectNotFoundError,
// errs.ObjectAlreadyExistsError, errs.ValueIsOutOfRangeError, *stock.InsufficientStockError
// or *OutOfRangeError. Infrastructure failures are returned as they are.
func (v *Validator) Validate(ctx context.Context, aggregate *order.Aggregate, scope Scope) (*Plan, error) {
	if err := aggregate.Validate(); err != nil {
		return nil, err
	}

	client, err := v.deps.Clients.Get(ctx, aggregate.ClientID())
	if err != nil {
		return nil, classify("order", aggregate.ID(), err)
	}

	pass := &validationPass{
		Validator: v,
		aggregate: aggregate,
		client:    client,
		scope:     scope,
		producers: make(map[kernel.ID]*party.Producer),
		reachable: make(map[kernel.ID]struct{}),
		entries:   make(map[stock.Key]stock.Entry),
		debits:    stock.NewMovements(),
	}

	for _, li := range aggregate.LineItems() {
		if err := pass.checkLineItem(ctx, li); err != nil {
			return nil, err
		}
	}

	return &Plan{debits: pass.debits}, nil
}

// validationPass holds what one Validate call has already loaded.
type validationPass struct {
	*Validator
	aggregate *order.Aggregate
	client    *party.Client
	scope     Scope

	producers map[kernel.ID]*party.Producer
	reachable map[kernel.ID]struct{}
	entries   map[stock.Key]stock.Entry
	debits    *stock.Movements
}

func (p *validationPass) checkLineItem(ctx context.Context, li *order.LineItem) error {
	const kind = "line item"

	if !p.scope.ownsLineItem(li.ID()) {
		exists, err := p.deps.Orders.LineItemExists(ctx, li.ID())
		if err != nil {
			return fmt.Errorf("check line item %s: %w", li.ID(), err)
		}
		if exists {
			return newValidationError(kind, li.ID(), errs.NewObjectAlreadyExistsError(kind, li.ID()))
		}
	}

	found, err := p.deps.Products.Exists(ctx, li.ProductID())
	if err != nil {
		return fmt.Errorf("check product %s: %w", li.ProductID(), err)
	}
	if !found {
		return newValidationError(kind, li.ID(), errs.NewObjectNotFoundError("product", li.ProductID()))
	}

	if err := p.deps.Policy.Check(li, p.aggregate.AllocatedQuantity(li.ID())); err != nil {
		return newValidationError(kind, li.ID(), err)
	}

	for _, a := range p.aggregate.AllocationsOf(li.ID()) {
		if err := p.checkAllocation(ctx, li, a); err != nil {
			return err
		}
	}
	return nil
}

func (p *validationPass) checkAllocation(ctx context.Context, li *order.LineItem, a *order.Allocation) error {
	const kind = "allocation"

	if !p.scope.ownsAllocation(a.ID()) {
		exists, err := p.deps.Orders.AllocationExists(ctx, a.ID())
		if err != nil {
			return fmt.Errorf("check allocation %s: %w", a.ID(), err)
		}
		if exists {
			return newValidationError(kind, a.ID(), errs.NewObjectAlreadyExistsError(kind, a.ID()))
		}
	}

	producer, err := p.producer(ctx, a.ProducerID())
	if err != nil {
		return classify(kind, a.ID(), err)
	}

	if _, ok := p.reachable[producer.ID()]; !ok {
		if err := p.deps.Gate.CanDeliver(ctx, producer, p.client); err != nil {
			return classify(kind, a.ID(), err)
		}
		p.reachable[producer.ID()] = struct{}{}
	}

	key := stock.Key{ProducerID: producer.ID(), ProductID: li.ProductID()}
	entry, err := p.entry(ctx, key)
	if err != nil {
		return classify(kind, a.ID(), err)
	}

	if p.scope.holds(a.ID()) {
		return nil
	}

	p.debits.Add(key, a.Quantity())
	if requested := p.debits.Total(key); requested.GreaterThan(entry.Available()) {
		return newValidationError(kind, a.ID(), stock.NewInsufficientStockError(key, requested, entry.Available()))
	}
	return nil
}

func (p *validationPass) producer(ctx context.Context, id kernel.ID) (*party.Producer, error) {
	if pr, ok := p.producers[id]; ok {
		return pr, nil
	}
	pr, err := p.deps.Producers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.producers[id] = pr
	return pr, nil
}

func (p *validationPass) entry(ctx context.Context, key stock.Key) (stock.Entry, error) {
	if e, ok := p.entries[key]; ok {
		return e, nil
	}
	e, err := p.deps.Stock.Get(ctx, key)
	if err != nil {
		return stock.Entry{}, err
	}
	p.entries[key] = e
	return e, nil
}

// classify wraps business failures into a ValidationError and leaves other errors untouched.
func classify(kind string, id kernel.ID, err error) error {
	var outOfRange *OutOfRangeError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrObjectAlreadyExists),
		errors.Is(err, stock.ErrInsufficientStock),
		errors.As(err, &outOfRange):
		return newValidationError(kind, id, err)
	default:
		return err
	}
}
