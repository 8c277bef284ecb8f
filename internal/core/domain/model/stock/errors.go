package stock

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrInsufficientStock is the sentinel wrapped by every InsufficientStockError.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError reports a request for more than a producer has available.
type InsufficientStockError struct {
	ProducerID kernel.ID
	ProductID  kernel.ID
	Requested  kernel.Quantity
	Available  kernel.Quantity
}

// NewInsufficientStockError builds the error for key.
func NewInsufficientStockError(key Key, requested, available kernel.Quantity) *InsufficientStockError {
	return &InsufficientStockError{
		ProducerID: key.ProducerID,
		ProductID:  key.ProductID,
		Requested:  requested,
		Available:  available,
	}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: producer %s has %s of product %s, requested %s",
		ErrInsufficientStock, e.ProducerID, e.Available, e.ProductID, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
