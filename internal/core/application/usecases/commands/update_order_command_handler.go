package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"go.opentelemetry.io/otel/attribute"
)

// UpdateOrderCommandHandler reconciles a stored aggregate with its replacement.
//
// Within one unit of work it:
//  1. loads the stored aggregate and diffs it against the replacement
//  2. credits the stock of removed allocations and deletes their records
//  3. deletes line items missing from the replacement
//  4. validates the replacement against the restored ledger; retained allocations
//     keep the stock they hold and are not debited again
//  5. debits the added allocations and saves the replacement
type UpdateOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	validators *ValidatorFactory
	in         instrumentation
}

// NewUpdateOrderCommandHandler creates a handler for order replacement.
func NewUpdateOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	validators *ValidatorFactory,
	opts ...Option,
) (*UpdateOrderCommandHandler, error) {
	if uowFactory == nil {
		return nil, errors.New("uow factory is nil")
	}
	if validators == nil {
		return nil, errors.New("validator factory is nil")
	}
	return &UpdateOrderCommandHandler{
		uowFactory: uowFactory,
		validators: validators,
		in:         newInstrumentation(opts),
	}, nil
}

// Handle replaces the order of cmd and returns the stored replacement.
// A missing order yields errs.ObjectNotFoundError with kind "order".
func (h *UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (_ *order.Aggregate, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}
	incoming := cmd.Aggregate()

	ctx, span, started := h.in.start(ctx, opUpdateOrder, attribute.Int64("order.id", cmd.OrderID().Int64()))
	defer func() { h.in.end(span, opUpdateOrder, started, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ledger := uow.StockLedger()

	existing, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	diff, err := services.Reconcile(existing, incoming)
	if err != nil {
		return nil, err
	}

	credits := diff.Credits.List()
	if err = applyCredits(ctx, ledger, credits); err != nil {
		return nil, err
	}
	for _, a := range diff.RemovedAllocations {
		if err = orderRepo.DeleteAllocation(ctx, a.ID()); err != nil {
			return nil, err
		}
	}
	for _, li := range diff.DeletedLineItems {
		if err = orderRepo.DeleteLineItem(ctx, li.ID()); err != nil {
			return nil, err
		}
	}

	validator, err := h.validators.For(uow)
	if err != nil {
		return nil, err
	}
	plan, err := validator.Validate(ctx, incoming, services.ReplaceScope(existing, diff.RetainedAllocations))
	if err != nil {
		return nil, err
	}

	debits := plan.Debits()
	if err = applyDebits(ctx, ledger, debits); err != nil {
		return nil, err
	}

	if err = orderRepo.Save(ctx, incoming); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.in.recorder.StockCredited(credits)
	h.in.recorder.StockDebited(debits)
	h.in.publish(ctx, order.NewChangedEvent(order.Updated, incoming.Order(), debits, credits))
	return incoming, nil
}
