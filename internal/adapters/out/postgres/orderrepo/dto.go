// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// An order aggregate is stored in three tables: orders, line_items and allocations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO is a row of the orders table.
type OrderDTO struct {
	ID        int64         `gorm:"primaryKey;autoIncrement:false"`
	ClientID  int64         `gorm:"not null;index"`
	PlacedAt  time.Time     `gorm:"not null;index"`
	LineItems []LineItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is a row of the line_items table.
type LineItemDTO struct {
	ID          int64           `gorm:"primaryKey;autoIncrement:false"`
	OrderID     int64           `gorm:"not null;index"`
	ProductID   int64           `gorm:"not null;index"`
	Quantity    decimal.Decimal `gorm:"type:numeric(20,6);not null"`
	Allocations []AllocationDTO `gorm:"foreignKey:LineItemID;constraint:OnDelete:CASCADE"`
}

func (LineItemDTO) TableName() string {
	return "line_items"
}

// AllocationDTO is a row of the allocations table.
type AllocationDTO struct {
	ID         int64           `gorm:"primaryKey;autoIncrement:false"`
	LineItemID int64           `gorm:"not null;index"`
	ProducerID int64           `gorm:"not null;index"`
	Quantity   decimal.Decimal `gorm:"type:numeric(20,6);not null"`
}

func (AllocationDTO) TableName() string {
	return "allocations"
}

// fromDomain splits an aggregate into its rows. Associations are left empty: each
// table is written on its own.
func fromDomain(aggregate *order.Aggregate) (OrderDTO, []LineItemDTO, []AllocationDTO) {
	header := OrderDTO{
		ID:       aggregate.ID().Int64(),
		ClientID: aggregate.ClientID().Int64(),
		PlacedAt: aggregate.Order().PlacedAt(),
	}

	lineItems := make([]LineItemDTO, 0, len(aggregate.LineItems()))
	for _, li := range aggregate.LineItems() {
		lineItems = append(lineItems, LineItemDTO{
			ID:        li.ID().Int64(),
			OrderID:   li.OrderID().Int64(),
			ProductID: li.ProductID().Int64(),
			Quantity:  li.Quantity().Decimal(),
		})
	}

	allocations := make([]AllocationDTO, 0, len(aggregate.Allocations()))
	for _, a := range aggregate.Allocations() {
		allocations = append(allocations, AllocationDTO{
			ID:         a.ID().Int64(),
			LineItemID: a.LineItemID().Int64(),
			ProducerID: a.ProducerID().Int64(),
			Quantity:   a.Quantity().Decimal(),
		})
	}

	return header, lineItems, allocations
}

// toDomain rebuilds an aggregate from an order row with its associations preloaded.
func toDomain(dto OrderDTO) (*order.Aggregate, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	clientID, err := kernel.NewID(dto.ClientID)
	if err != nil {
		return nil, err
	}
	header, err := order.NewOrder(id, clientID, dto.PlacedAt)
	if err != nil {
		return nil, err
	}

	lineItems := make([]*order.LineItem, 0, len(dto.LineItems))
	var allocations []*order.Allocation
	for _, liDTO := range dto.LineItems {
		li, err := lineItemToDomain(liDTO)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, li)

		for _, aDTO := range liDTO.Allocations {
			a, err := allocationToDomain(aDTO)
			if err != nil {
				return nil, err
			}
			allocations = append(allocations, a)
		}
	}

	return order.NewAggregate(header, lineItems, allocations)
}

func lineItemToDomain(dto LineItemDTO) (*order.LineItem, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.NewID(dto.OrderID)
	if err != nil {
		return nil, err
	}
	productID, err := kernel.NewID(dto.ProductID)
	if err != nil {
		return nil, err
	}
	quantity, err := kernel.NewQuantity(dto.Quantity)
	if err != nil {
		return nil, err
	}
	return order.NewLineItem(id, orderID, productID, quantity)
}

func allocationToDomain(dto AllocationDTO) (*order.Allocation, error) {
	id, err := kernel.NewID(dto.ID)
	if err != nil {
		return nil, err
	}
	lineItemID, err := kernel.NewID(dto.LineItemID)
	if err != nil {
		return nil, err
	}
	producerID, err := kernel.NewID(dto.ProducerID)
	if err != nil {
		return nil, err
	}
	quantity, err := kernel.NewQuantity(dto.Quantity)
	if err != nil {
		return nil, err
	}
	return order.NewAllocation(id, lineItemID, producerID, quantity)
}
