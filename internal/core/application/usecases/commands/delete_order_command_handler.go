package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/stock"

	"go.opentelemetry.io/otel/attribute"
)

// DeleteOrderCommandHandler deletes an order aggregate.
// Stock of every allocation is credited back before any record is removed.
type DeleteOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	in         instrumentation
}

// NewDeleteOrderCommandHandler creates a handler for order deletion.
func NewDeleteOrderCommandHandler(uowFactory FulfillmentUoWFactory, opts ...Option) (*DeleteOrderCommandHandler, error) {
	if uowFactory == nil {
		return nil, errors.New("uow factory is nil")
	}
	return &DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		in:         newInstrumentation(opts),
	}, nil
}

// Handle deletes the order of cmd.
// A missing order yields errs.ObjectNotFoundError with kind "order" and touches no stock.
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) (err error) {
	if err = cmd.Validate(); err != nil {
		return err
	}

	ctx, span, started := h.in.start(ctx, opDeleteOrder, attribute.Int64("order.id", cmd.OrderID().Int64()))
	defer func() { h.in.end(span, opDeleteOrder, started, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	existing, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	restored := stock.NewMovements()
	for _, a := range existing.Allocations() {
		product, _ := existing.ProductOf(a)
		restored.Add(stock.Key{ProducerID: a.ProducerID(), ProductID: product}, a.Quantity())
	}
	credits := restored.List()
	if err = applyCredits(ctx, uow.StockLedger(), credits); err != nil {
		return err
	}

	if err = orderRepo.Delete(ctx, existing.ID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.in.recorder.StockCredited(credits)
	h.in.publish(ctx, order.NewChangedEvent(order.Deleted, existing.Order(), nil, credits))
	return nil
}
