package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/guard"
)

var ErrGetStockQueryIsNotConstructed = errors.New(
	"GetStockQuery must be created via NewGetStockQuery constructor",
)

var ErrProductStockQueryIsNotConstructed = errors.New(
	"ProductStockQuery must be created via NewProductStockQuery constructor",
)

// GetStockQuery reads the available quantity of a product at a producer.
type GetStockQuery struct {
	key stock.Key

	guard guard.ConstructorGuard
}

// NewGetStockQuery creates the query.
func NewGetStockQuery(producerID, productID kernel.ID) (GetStockQuery, error) {
	key, err := stock.NewKey(producerID, productID)
	if err != nil {
		return GetStockQuery{}, err
	}
	return GetStockQuery{key: key, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStockQuery) Validate() error {
	return q.guard.Validate(ErrGetStockQueryIsNotConstructed)
}

func (q GetStockQuery) Key() stock.Key {
	return q.key
}

// ListStockQuery reads every ledger entry.
type ListStockQuery struct{}

// ProductStockQuery reads the stock of one product at every producer carrying it.
type ProductStockQuery struct {
	productID kernel.ID

	guard guard.ConstructorGuard
}

func NewProductStockQuery(productID kernel.ID) (ProductStockQuery, error) {
	if err := productID.Validate(); err != nil {
		return ProductStockQuery{}, err
	}
	return ProductStockQuery{productID: productID, guard: guard.NewConstructorGuard()}, nil
}

func (q ProductStockQuery) Validate() error {
	return q.guard.Validate(ErrProductStockQueryIsNotConstructed)
}

func (q ProductStockQuery) ProductID() kernel.ID {
	return q.productID
}
