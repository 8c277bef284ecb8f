package partyrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/party"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// insertNew inserts dto and reports errs.ObjectAlreadyExistsError when the id is taken.
func insertNew(ctx context.Context, db *gorm.DB, kind string, id kernel.ID, dto any) error {
	result := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectAlreadyExistsError(kind, id)
	}
	return nil
}

// GormClientRepository implements ClientRepository using GORM.
type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) Get(ctx context.Context, id kernel.ID) (*party.Client, error) {
	var dto ClientDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Int64()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("client", id)
		}
		return nil, err
	}
	return clientToDomain(dto)
}

func (r *GormClientRepository) Add(ctx context.Context, client *party.Client) error {
	if err := client.Validate(); err != nil {
		return err
	}
	dto := ClientDTO{
		ID:       client.ID().Int64(),
		Name:     client.Name(),
		Location: locationFromDomain(client.Location()),
	}
	return insertNew(ctx, r.db, "client", client.ID(), &dto)
}

// GormProducerRepository implements ProducerRepository using GORM.
type GormProducerRepository struct {
	db *gorm.DB
}

func NewGormProducerRepository(db *gorm.DB) *GormProducerRepository {
	return &GormProducerRepository{db: db}
}

func (r *GormProducerRepository) Get(ctx context.Context, id kernel.ID) (*party.Producer, error) {
	var dto ProducerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Int64()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("producer", id)
		}
		return nil, err
	}
	return producerToDomain(dto)
}

func (r *GormProducerRepository) Add(ctx context.Context, producer *party.Producer) error {
	if err := producer.Validate(); err != nil {
		return err
	}
	dto := ProducerDTO{
		ID:       producer.ID().Int64(),
		Name:     producer.Name(),
		Location: locationFromDomain(producer.Location()),
		RadiusKm: producer.Radius().Kilometers(),
	}
	return insertNew(ctx, r.db, "producer", producer.ID(), &dto)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Exists(ctx context.Context, id kernel.ID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProductDTO{}).Where("id = ?", id.Int64()).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormProductRepository) Add(ctx context.Context, id kernel.ID, name string) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	return insertNew(ctx, r.db, "product", id, &ProductDTO{ID: id.Int64(), Name: name})
}
