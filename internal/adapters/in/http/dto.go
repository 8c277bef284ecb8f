package http

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Kind and ID name the line item or allocation that failed validation.
	Kind string `json:"kind,omitempty"`
	ID   int64  `json:"id,omitempty"`
}

// Order is the JSON form of an order aggregate. Allocations are nested under
// the line item they serve.
type Order struct {
	ID        int64      `json:"id"`
	ClientID  int64      `json:"clientId"`
	PlacedAt  time.Time  `json:"placedAt"`
	LineItems []LineItem `json:"lineItems"`
}

type LineItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	Quantity    decimal.Decimal `json:"quantity"`
	Allocations []Allocation    `json:"allocations"`
}

type Allocation struct {
	ID         int64           `json:"id"`
	ProducerID int64           `json:"producerId"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// Stock is one producer's available quantity of a product.
type Stock struct {
	ProducerID int64           `json:"producerId"`
	ProductID  int64           `json:"productId"`
	Available  decimal.Decimal `json:"available"`
}

// ReceiveStock is the body of a stock reception.
type ReceiveStock struct {
	Quantity decimal.Decimal `json:"quantity"`
}

func newID(param string, v int64) (kernel.ID, error) {
	id, err := kernel.NewID(v)
	if err != nil {
		return kernel.ID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}

func newQuantity(param string, v decimal.Decimal) (kernel.Quantity, error) {
	q, err := kernel.NewQuantity(v)
	if err != nil {
		return kernel.Quantity{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return q, nil
}

// toAggregate builds the domain aggregate of body. Every failure is a
// ValueIsInvalidError so that it renders as a bad request.
func (body Order) toAggregate() (*order.Aggregate, error) {
	orderID, err := newID("id", body.ID)
	if err != nil {
		return nil, err
	}
	clientID, err := newID("clientId", body.ClientID)
	if err != nil {
		return nil, err
	}
	header, err := order.NewOrder(orderID, clientID, body.PlacedAt)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("order", err)
	}

	lineItems := make([]*order.LineItem, 0, len(body.LineItems))
	var allocations []*order.Allocation
	for _, item := range body.LineItems {
		li, err := item.toDomain(orderID)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, li)

		for _, a := range item.Allocations {
			alloc, err := a.toDomain(li.ID())
			if err != nil {
				return nil, err
			}
			allocations = append(allocations, alloc)
		}
	}

	aggregate, err := order.NewAggregate(header, lineItems, allocations)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("order", err)
	}
	return aggregate, nil
}

func (item LineItem) toDomain(orderID kernel.ID) (*order.LineItem, error) {
	id, idErr := newID("lineItems.id", item.ID)
	productID, productErr := newID("lineItems.productId", item.ProductID)
	quantity, quantityErr := newQuantity("lineItems.quantity", item.Quantity)
	if err := errors.Join(idErr, productErr, quantityErr); err != nil {
		return nil, err
	}
	li, err := order.NewLineItem(id, orderID, productID, quantity)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("lineItems", err)
	}
	return li, nil
}

func (a Allocation) toDomain(lineItemID kernel.ID) (*order.Allocation, error) {
	id, idErr := newID("allocations.id", a.ID)
	producerID, producerErr := newID("allocations.producerId", a.ProducerID)
	quantity, quantityErr := newQuantity("allocations.quantity", a.Quantity)
	if err := errors.Join(idErr, producerErr, quantityErr); err != nil {
		return nil, err
	}
	alloc, err := order.NewAllocation(id, lineItemID, producerID, quantity)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("allocations", err)
	}
	return alloc, nil
}

func fromAggregate(aggregate *order.Aggregate) Order {
	out := Order{
		ID:        aggregate.ID().Int64(),
		ClientID:  aggregate.ClientID().Int64(),
		PlacedAt:  aggregate.Order().PlacedAt(),
		LineItems: make([]LineItem, 0, len(aggregate.LineItems())),
	}
	for _, li := range aggregate.LineItems() {
		item := LineItem{
			ID:          li.ID().Int64(),
			ProductID:   li.ProductID().Int64(),
			Quantity:    li.Quantity().Decimal(),
			Allocations: []Allocation{},
		}
		for _, a := range aggregate.AllocationsOf(li.ID()) {
			item.Allocations = append(item.Allocations, Allocation{
				ID:         a.ID().Int64(),
				ProducerID: a.ProducerID().Int64(),
				Quantity:   a.Quantity().Decimal(),
			})
		}
		out.LineItems = append(out.LineItems, item)
	}
	return out
}

func fromAggregates(aggregates []*order.Aggregate) []Order {
	out := make([]Order, 0, len(aggregates))
	for _, a := range aggregates {
		out = append(out, fromAggregate(a))
	}
	return out
}

func fromEntry(e stock.Entry) Stock {
	return Stock{
		ProducerID: e.Key().ProducerID.Int64(),
		ProductID:  e.Key().ProductID.Int64(),
		Available:  e.Available().Decimal(),
	}
}

func fromEntries(entries []stock.Entry) []Stock {
	out := make([]Stock, 0, len(entries))
	for _, e := range entries {
		out = append(out, fromEntry(e))
	}
	return out
}
