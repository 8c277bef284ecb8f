package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created via NewLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is the requested quantity of one product inside an order.
type LineItem struct {
	id        kernel.ID
	orderID   kernel.ID
	productID kernel.ID
	quantity  kernel.Quantity

	isConstructed bool
}

// NewLineItem creates a line item. All identifiers must be valid and the
// quantity must be constructed; quantities are non-negative by construction.
func NewLineItem(id, orderID, productID kernel.ID, quantity kernel.Quantity) (*LineItem, error) {
	li := &LineItem{isConstructed: true}

	if err := errors.Join(
		li.setID(id),
		li.setOrderID(orderID),
		li.setProductID(productID),
		li.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return li, nil
}

// Validate ensures the LineItem was created via NewLineItem.
func (l *LineItem) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

// ID returns the line item identifier.
func (l *LineItem) ID() kernel.ID { return l.id }

// OrderID returns the identifier of the owning order.
func (l *LineItem) OrderID() kernel.ID { return l.orderID }

// ProductID returns the identifier of the requested product.
func (l *LineItem) ProductID() kernel.ID { return l.productID }

// Quantity returns the requested quantity.
func (l *LineItem) Quantity() kernel.Quantity { return l.quantity }

// IsEqual compares two line items by value.
func (l *LineItem) IsEqual(other *LineItem) bool {
	return other != nil &&
		l.id == other.id &&
		l.orderID == other.orderID &&
		l.productID == other.productID &&
		l.quantity.Equal(other.quantity)
}

func (l *LineItem) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *LineItem) setOrderID(orderID kernel.ID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	l.orderID = orderID
	return nil
}

func (l *LineItem) setProductID(productID kernel.ID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	l.productID = productID
	return nil
}

func (l *LineItem) setQuantity(quantity kernel.Quantity) error {
	if err := quantity.Validate(); err != nil {
		return err
	}
	l.quantity = quantity
	return nil
}
