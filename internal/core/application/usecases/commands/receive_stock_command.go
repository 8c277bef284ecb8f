package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReceiveStockCommandIsNotConstructed = errors.New(
	"ReceiveStockCommand must be created via NewReceiveStockCommand constructor",
)

// ReceiveStockCommand adds delivered goods to a producer's stock of a product.
type ReceiveStockCommand struct { //nolint:recvcheck //using for validation
	key      stock.Key
	quantity kernel.Quantity

	guard guard.ConstructorGuard
}

// NewReceiveStockCommand creates the command. The quantity must be strictly positive.
func NewReceiveStockCommand(producerID, productID kernel.ID, quantity kernel.Quantity) (ReceiveStockCommand, error) {
	cmd := ReceiveStockCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setKey(producerID, productID),
		cmd.setQuantity(quantity),
	); err != nil {
		return ReceiveStockCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReceiveStockCommand) Validate() error {
	return c.guard.Validate(ErrReceiveStockCommandIsNotConstructed)
}

// Key returns the (producer, product) receiving the goods.
func (c ReceiveStockCommand) Key() stock.Key {
	return c.key
}

// Quantity returns the received quantity.
func (c ReceiveStockCommand) Quantity() kernel.Quantity {
	return c.quantity
}

func (c *ReceiveStockCommand) setKey(producerID, productID kernel.ID) error {
	key, err := stock.NewKey(producerID, productID)
	if err != nil {
		return err
	}
	c.key = key
	return nil
}

func (c *ReceiveStockCommand) setQuantity(quantity kernel.Quantity) error {
	if err := quantity.Validate(); err != nil {
		return err
	}
	if quantity.IsZero() {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, "0 (exclusive)", "+inf")
	}
	c.quantity = quantity
	return nil
}
