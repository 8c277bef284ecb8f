// Package stockrepo stores the stock ledger: one row per (producer, product).
package stockrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"

	"github.com/shopspring/decimal"
)

// StockDTO is a row of the stock table.
type StockDTO struct {
	ProducerID int64           `gorm:"primaryKey;autoIncrement:false"`
	ProductID  int64           `gorm:"primaryKey;autoIncrement:false;index"`
	Quantity   decimal.Decimal `gorm:"type:numeric(20,6);not null;check:chk_stock_quantity_non_negative,quantity >= 0"`
}

// TableName overrides GORM's default naming convention to use "stock".
func (StockDTO) TableName() string {
	return "stock"
}

func toDomain(dto StockDTO) (stock.Entry, error) {
	producerID, err := kernel.NewID(dto.ProducerID)
	if err != nil {
		return stock.Entry{}, err
	}
	productID, err := kernel.NewID(dto.ProductID)
	if err != nil {
		return stock.Entry{}, err
	}
	key, err := stock.NewKey(producerID, productID)
	if err != nil {
		return stock.Entry{}, err
	}
	available, err := kernel.NewQuantity(dto.Quantity)
	if err != nil {
		return stock.Entry{}, err
	}
	return stock.NewEntry(key, available)
}
