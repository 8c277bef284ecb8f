package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/errs"
)

// GetStockQueryHandler reads the stock ledger.
type GetStockQueryHandler struct {
	factory ReadUoWFactory
}

// NewGetStockQueryHandler creates the handler.
func NewGetStockQueryHandler(factory ReadUoWFactory) (*GetStockQueryHandler, error) {
	if factory == nil {
		return nil, errors.New("uow factory is nil")
	}
	return &GetStockQueryHandler{factory: factory}, nil
}

// Handle returns errs.ObjectNotFoundError with kind "stock" when the producer does not
// carry the product.
func (h *GetStockQueryHandler) Handle(ctx context.Context, query GetStockQuery) (stock.Entry, error) {
	if err := query.Validate(); err != nil {
		return stock.Entry{}, err
	}
	return read(ctx, h.factory, func(uow ReadUoW) (stock.Entry, error) {
		return uow.StockLedger().Get(ctx, query.Key())
	})
}

// HandleList returns every entry of the ledger.
func (h *GetStockQueryHandler) HandleList(ctx context.Context, _ ListStockQuery) ([]stock.Entry, error) {
	return read(ctx, h.factory, func(uow ReadUoW) ([]stock.Entry, error) {
		return uow.StockLedger().List(ctx)
	})
}

// HandleByProduct lists the producers carrying a product with their available quantity.
// An unknown product yields errs.ObjectNotFoundError with kind "product"; a known product
// nobody carries yields an empty list.
func (h *GetStockQueryHandler) HandleByProduct(ctx context.Context, query ProductStockQuery) ([]stock.Entry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return read(ctx, h.factory, func(uow ReadUoW) ([]stock.Entry, error) {
		found, err := uow.ProductRepository().Exists(ctx, query.ProductID())
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errs.NewObjectNotFoundError("product", query.ProductID())
		}
		return uow.StockLedger().ListByProduct(ctx, query.ProductID())
	})
}
