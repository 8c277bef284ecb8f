package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// UpdateOrderCommand replaces the stored aggregate of an order with a new one.
// The replacement supersedes the stored line items and allocations entirely.
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.ID
	aggregate *order.Aggregate

	guard guard.ConstructorGuard
}

// NewUpdateOrderCommand creates the command. The replacement must carry orderID.
func NewUpdateOrderCommand(orderID kernel.ID, replacement *order.Aggregate) (UpdateOrderCommand, error) {
	cmd := UpdateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAggregate(replacement),
	); err != nil {
		return UpdateOrderCommand{}, err
	}
	if cmd.aggregate.ID() != cmd.orderID {
		return UpdateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("orderId",
			fmt.Errorf("%w: %s != %s", services.ErrOrderIDMismatch, replacement.ID(), orderID))
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

// OrderID returns the id of the order being replaced.
func (c UpdateOrderCommand) OrderID() kernel.ID {
	return c.orderID
}

// Aggregate returns the replacement aggregate.
func (c UpdateOrderCommand) Aggregate() *order.Aggregate {
	return c.aggregate
}

func (c *UpdateOrderCommand) setOrderID(orderID kernel.ID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateOrderCommand) setAggregate(aggregate *order.Aggregate) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	c.aggregate = aggregate
	return nil
}
