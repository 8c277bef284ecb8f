package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrCommitOrderCommandIsNotConstructed = errors.New(
	"CommitOrderCommand must be created via NewCommitOrderCommand constructor",
)

// CommitOrderCommand represents a request to validate and commit a new order aggregate.
//
// Example:
//
//	cmd, err := NewCommitOrderCommand(aggregate)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	committed, err := handler.Handle(ctx, cmd)
type CommitOrderCommand struct { //nolint:recvcheck //using for validation
	aggregate *order.Aggregate

	guard guard.ConstructorGuard
}

// NewCommitOrderCommand creates a command for a structurally valid aggregate.
func NewCommitOrderCommand(aggregate *order.Aggregate) (CommitOrderCommand, error) {
	cmd := CommitOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setAggregate(aggregate); err != nil {
		return CommitOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CommitOrderCommand) Validate() error {
	return c.guard.Validate(ErrCommitOrderCommandIsNotConstructed)
}

// Aggregate returns the candidate aggregate.
func (c CommitOrderCommand) Aggregate() *order.Aggregate {
	return c.aggregate
}

func (c *CommitOrderCommand) setAggregate(aggregate *order.Aggregate) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	c.aggregate = aggregate
	return nil
}
