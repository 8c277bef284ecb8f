package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
)

// GetOrderQueryHandler returns an order as its header, line items and allocations.
type GetOrderQueryHandler struct {
	factory ReadUoWFactory
}

// NewGetOrderQueryHandler creates the handler.
func NewGetOrderQueryHandler(factory ReadUoWFactory) (*GetOrderQueryHandler, error) {
	if factory == nil {
		return nil, errors.New("uow factory is nil")
	}
	return &GetOrderQueryHandler{factory: factory}, nil
}

// Handle returns errs.ObjectNotFoundError with kind "order" when the order is absent.
func (h *GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Aggregate, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return read(ctx, h.factory, func(uow ReadUoW) (*order.Aggregate, error) {
		return uow.OrderRepository().Get(ctx, query.OrderID())
	})
}
