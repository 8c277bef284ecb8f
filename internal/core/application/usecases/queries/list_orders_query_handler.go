package queries

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ListOrdersQueryHandler lists order aggregates by client, producer or product.
type ListOrdersQueryHandler struct {
	factory ReadUoWFactory
}

// NewListOrdersQueryHandler creates the handler.
func NewListOrdersQueryHandler(factory ReadUoWFactory) (*ListOrdersQueryHandler, error) {
	if factory == nil {
		return nil, errors.New("uow factory is nil")
	}
	return &ListOrdersQueryHandler{factory: factory}, nil
}

// Handle returns the matching aggregates; an empty result is not an error.
// Listing by an unknown product returns errs.ObjectNotFoundError with kind "product".
func (h *ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]*order.Aggregate, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return read(ctx, h.factory, func(uow ReadUoW) ([]*order.Aggregate, error) {
		orders := uow.OrderRepository()
		switch query.Filter() {
		case ByClient:
			return orders.ListByClient(ctx, query.ID())
		case ByProducer:
			return orders.ListByProducer(ctx, query.ID())
		case ByProduct:
			found, err := uow.ProductRepository().Exists(ctx, query.ID())
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, errs.NewObjectNotFoundError("product", query.ID())
			}
			return orders.ListByProduct(ctx, query.ID())
		default:
			return nil, fmt.Errorf("unsupported order filter %d", query.Filter())
		}
	})
}
