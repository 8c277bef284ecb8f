package stockrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockLedger implements StockLedger using GORM.
type GormStockLedger struct {
	db *gorm.DB
}

// NewGormStockLedger creates a new GORM stock ledger.
func NewGormStockLedger(db *gorm.DB) *GormStockLedger {
	return &GormStockLedger{db: db}
}

func (l *GormStockLedger) Get(ctx context.Context, key stock.Key) (stock.Entry, error) {
	var dto StockDTO
	err := l.db.WithContext(ctx).
		First(&dto, "producer_id = ? AND product_id = ?", key.ProducerID.Int64(), key.ProductID.Int64()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stock.Entry{}, errs.NewObjectNotFoundError("stock", key)
		}
		return stock.Entry{}, err
	}
	return toDomain(dto)
}

// Debit decrements the entry with a single conditional update, so two transactions
// racing for the last units cannot both succeed.
func (l *GormStockLedger) Debit(ctx context.Context, key stock.Key, quantity kernel.Quantity) error {
	if err := quantity.Validate(); err != nil {
		return err
	}

	q := quantity.Decimal()
	result := l.db.WithContext(ctx).Model(&StockDTO{}).
		Where("producer_id = ? AND product_id = ? AND quantity >= ?", key.ProducerID.Int64(), key.ProductID.Int64(), q).
		Update("quantity", gorm.Expr("quantity - ?", q))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	entry, err := l.Get(ctx, key)
	if err != nil {
		return err
	}
	return stock.NewInsufficientStockError(key, quantity, entry.Available())
}

// Credit increments the entry, creating it when the producer did not carry the product yet.
func (l *GormStockLedger) Credit(ctx context.Context, key stock.Key, quantity kernel.Quantity) error {
	if err := quantity.Validate(); err != nil {
		return err
	}

	dto := StockDTO{
		ProducerID: key.ProducerID.Int64(),
		ProductID:  key.ProductID.Int64(),
		Quantity:   quantity.Decimal(),
	}
	return l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "producer_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("stock.quantity + excluded.quantity"),
		}),
	}).Create(&dto).Error
}

func (l *GormStockLedger) List(ctx context.Context) ([]stock.Entry, error) {
	var dtos []StockDTO
	if err := l.db.WithContext(ctx).Order("producer_id, product_id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toEntries(dtos)
}

func (l *GormStockLedger) ListByProduct(ctx context.Context, productID kernel.ID) ([]stock.Entry, error) {
	var dtos []StockDTO
	err := l.db.WithContext(ctx).
		Where("product_id = ?", productID.Int64()).
		Order("producer_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toEntries(dtos)
}

func toEntries(dtos []StockDTO) ([]stock.Entry, error) {
	entries := make([]stock.Entry, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
