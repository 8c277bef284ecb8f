package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ProducerOrdersQueryHandler serves the producer-scoped order views.
type ProducerOrdersQueryHandler struct {
	factory ReadUoWFactory
}

// NewProducerOrdersQueryHandler creates the handler.
func NewProducerOrdersQueryHandler(factory ReadUoWFactory) (*ProducerOrdersQueryHandler, error) {
	if factory == nil {
		return nil, errors.New("uow factory is nil")
	}
	return &ProducerOrdersQueryHandler{factory: factory}, nil
}

// HandleGet returns the producer's view of one order.
// An order the producer has no allocation in is reported as not found.
func (h *ProducerOrdersQueryHandler) HandleGet(ctx context.Context, query GetProducerOrderQuery) (*order.Aggregate, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return read(ctx, h.factory, func(uow ReadUoW) (*order.Aggregate, error) {
		if _, err := uow.ProducerRepository().Get(ctx, query.ProducerID()); err != nil {
			return nil, err
		}
		aggregate, err := uow.OrderRepository().Get(ctx, query.OrderID())
		if err != nil {
			return nil, err
		}
		if !aggregate.HasProducer(query.ProducerID()) {
			return nil, errs.NewObjectNotFoundError("order", query.OrderID())
		}
		return aggregate.ForProducer(query.ProducerID()), nil
	})
}

// HandleList returns the producer's view of every order it takes part in.
func (h *ProducerOrdersQueryHandler) HandleList(ctx context.Context, query ListProducerOrdersQuery) ([]*order.Aggregate, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return read(ctx, h.factory, func(uow ReadUoW) ([]*order.Aggregate, error) {
		if _, err := uow.ProducerRepository().Get(ctx, query.ProducerID()); err != nil {
			return nil, err
		}
		orders, err := uow.OrderRepository().ListByProducer(ctx, query.ProducerID())
		if err != nil {
			return nil, err
		}
		views := make([]*order.Aggregate, 0, len(orders))
		for _, o := range orders {
			views = append(views, o.ForProducer(query.ProducerID()))
		}
		return views, nil
	})
}
