package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"go.opentelemetry.io/otel/attribute"
)

// CommitOrderCommandHandler validates a new aggregate and commits it together with
// the stock debits it needs.
//
// The whole operation runs in one unit of work: the order id is checked for
// duplicates, the aggregate is validated without side effects, the planned debits
// are applied and the records are saved. Any failure rolls everything back, so a
// rejected order never leaves a partial debit behind.
//
// Example:
//
//	handler, _ := NewCommitOrderCommandHandler(uowFactory, validators)
//	cmd, _ := NewCommitOrderCommand(aggregate)
//
//	committed, err := handler.Handle(ctx, cmd)
//	var verr *services.ValidationError
//	if errors.As(err, &verr) {
//	    // render verr.Kind, verr.ID and the wrapped cause
//	}
type CommitOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	validators *ValidatorFactory
	in         instrumentation
}

// NewCommitOrderCommandHandler creates a handler for order commits.
func NewCommitOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	validators *ValidatorFactory,
	opts ...Option,
) (*CommitOrderCommandHandler, error) {
	if uowFactory == nil {
		return nil, errors.New("uow factory is nil")
	}
	if validators == nil {
		return nil, errors.New("validator factory is nil")
	}
	return &CommitOrderCommandHandler{
		uowFactory: uowFactory,
		validators: validators,
		in:         newInstrumentation(opts),
	}, nil
}

// Handle validates and commits the aggregate of cmd.
//
// Returns:
//   - the committed aggregate
//   - errs.ObjectAlreadyExistsError when the order id is taken
//   - *services.ValidationError for any business rule violation
//   - *stock.InsufficientStockError when a concurrent order drained the stock first
func (h *CommitOrderCommandHandler) Handle(ctx context.Context, cmd CommitOrderCommand) (_ *order.Aggregate, err error) {
	if err = cmd.Validate(); err != nil {
		return nil, err
	}
	aggregate := cmd.Aggregate()

	ctx, span, started := h.in.start(ctx, opCommitOrder, attribute.Int64("order.id", aggregate.ID().Int64()))
	defer func() { h.in.end(span, opCommitOrder, started, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	exists, err := orderRepo.Exists(ctx, aggregate.ID())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewObjectAlreadyExistsError("order", aggregate.ID())
	}

	validator, err := h.validators.For(uow)
	if err != nil {
		return nil, err
	}
	plan, err := validator.Validate(ctx, aggregate, services.CreateScope())
	if err != nil {
		return nil, err
	}

	debits := plan.Debits()
	if err = applyDebits(ctx, uow.StockLedger(), debits); err != nil {
		return nil, err
	}

	if err = orderRepo.Save(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.in.recorder.StockDebited(debits)
	h.in.publish(ctx, order.NewChangedEvent(order.Created, aggregate.Order(), debits, nil))
	return aggregate, nil
}
