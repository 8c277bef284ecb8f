package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ReceiveStockCommandHandler credits received goods to the ledger. A producer
// receiving a product for the first time starts carrying it.
type ReceiveStockCommandHandler struct {
	uowFactory StockUoWFactory
	in         instrumentation
}

// NewReceiveStockCommandHandler creates a handler for stock receipts.
func NewReceiveStockCommandHandler(uowFactory StockUoWFactory, opts ...Option) (*ReceiveStockCommandHandler, error) {
	if uowFactory == nil {
		return nil, errors.New("uow factory is nil")
	}
	return &ReceiveStockCommandHandler{
		uowFactory: uowFactory,
		in:         newInstrumentation(opts),
	}, nil
}

// Handle credits the stock and returns the updated entry.
// Unknown producers and products yield errs.ObjectNotFoundError.
func (h *ReceiveStockCommandHandler) Handle(ctx context.Context, cmd ReceiveStockCommand) (_ stock.Entry, err error) {
	if err = cmd.Validate(); err != nil {
		return stock.Entry{}, err
	}
	key := cmd.Key()

	ctx, span, started := h.in.start(ctx, opReceiveStock,
		attribute.Int64("producer.id", key.ProducerID.Int64()),
		attribute.Int64("product.id", key.ProductID.Int64()))
	defer func() { h.in.end(span, opReceiveStock, started, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return stock.Entry{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err = uow.ProducerRepository().Get(ctx, key.ProducerID); err != nil {
		return stock.Entry{}, err
	}
	found, err := uow.ProductRepository().Exists(ctx, key.ProductID)
	if err != nil {
		return stock.Entry{}, err
	}
	if !found {
		return stock.Entry{}, errs.NewObjectNotFoundError("product", key.ProductID)
	}

	ledger := uow.StockLedger()
	if err = ledger.Credit(ctx, key, cmd.Quantity()); err != nil {
		return stock.Entry{}, err
	}
	entry, err := ledger.Get(ctx, key)
	if err != nil {
		return stock.Entry{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return stock.Entry{}, err
	}

	received := []stock.Movement{{Key: key, Quantity: cmd.Quantity()}}
	h.in.recorder.StockCredited(received)
	h.in.logger.Info("stock received",
		zap.Int64("producer_id", key.ProducerID.Int64()),
		zap.Int64("product_id", key.ProductID.Int64()),
		zap.String("quantity", cmd.Quantity().String()),
		zap.String("available", entry.Available().String()))
	return entry, nil
}
