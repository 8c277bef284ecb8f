package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// withParts preloads line items and allocations in id order.
func withParts(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	return db.Preload("LineItems", byID).Preload("LineItems.Allocations", byID)
}

// Get retrieves the full aggregate of an order.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Aggregate, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := withParts(r.db.WithContext(ctx)).First(&dto, "id = ?", id.Int64()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) Exists(ctx context.Context, id kernel.ID) (bool, error) {
	return r.exists(ctx, &OrderDTO{}, id)
}

func (r *GormOrderRepository) LineItemExists(ctx context.Context, id kernel.ID) (bool, error) {
	return r.exists(ctx, &LineItemDTO{}, id)
}

func (r *GormOrderRepository) AllocationExists(ctx context.Context, id kernel.ID) (bool, error) {
	return r.exists(ctx, &AllocationDTO{}, id)
}

func (r *GormOrderRepository) exists(ctx context.Context, model any, id kernel.ID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id.Int64()).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save upserts the header, the line items and the allocations of the aggregate.
func (r *GormOrderRepository) Save(ctx context.Context, aggregate *order.Aggregate) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	header, lineItems, allocations := fromDomain(aggregate)
	upsert := clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}
	upserter := func() *gorm.DB {
		return r.db.WithContext(ctx).Omit(clause.Associations).Clauses(upsert)
	}

	if err := upserter().Create(&header).Error; err != nil {
		return err
	}
	if len(lineItems) > 0 {
		if err := upserter().Create(&lineItems).Error; err != nil {
			return err
		}
	}
	if len(allocations) > 0 {
		if err := upserter().Create(&allocations).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormOrderRepository) DeleteLineItem(ctx context.Context, id kernel.ID) error {
	return r.db.WithContext(ctx).Delete(&LineItemDTO{}, "id = ?", id.Int64()).Error
}

func (r *GormOrderRepository) DeleteAllocation(ctx context.Context, id kernel.ID) error {
	return r.db.WithContext(ctx).Delete(&AllocationDTO{}, "id = ?", id.Int64()).Error
}

// Delete removes the allocations, the line items and the header of an order.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.ID) error {
	db := r.db.WithContext(ctx)
	items := db.Model(&LineItemDTO{}).Select("id").Where("order_id = ?", id.Int64())

	if err := db.Where("line_item_id IN (?)", items).Delete(&AllocationDTO{}).Error; err != nil {
		return err
	}
	if err := db.Where("order_id = ?", id.Int64()).Delete(&LineItemDTO{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id.Int64()).Delete(&OrderDTO{}).Error
}

func (r *GormOrderRepository) ListByClient(ctx context.Context, clientID kernel.ID) ([]*order.Aggregate, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("client_id = ?", clientID.Int64()))
}

func (r *GormOrderRepository) ListByProducer(ctx context.Context, producerID kernel.ID) ([]*order.Aggregate, error) {
	db := r.db.WithContext(ctx)
	orderIDs := db.Model(&LineItemDTO{}).
		Select("line_items.order_id").
		Joins("JOIN allocations ON allocations.line_item_id = line_items.id").
		Where("allocations.producer_id = ?", producerID.Int64())
	return r.list(ctx, db.Where("id IN (?)", orderIDs))
}

func (r *GormOrderRepository) ListByProduct(ctx context.Context, productID kernel.ID) ([]*order.Aggregate, error) {
	db := r.db.WithContext(ctx)
	orderIDs := db.Model(&LineItemDTO{}).Select("order_id").Where("product_id = ?", productID.Int64())
	return r.list(ctx, db.Where("id IN (?)", orderIDs))
}

// list loads the orders matched by scope, oldest first.
func (r *GormOrderRepository) list(_ context.Context, scope *gorm.DB) ([]*order.Aggregate, error) {
	var dtos []OrderDTO
	if err := withParts(scope).Order("placed_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	aggregates := make([]*order.Aggregate, 0, len(dtos))
	for _, dto := range dtos {
		agg, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, nil
}
