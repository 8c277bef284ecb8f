package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/party"
)

// ClientRepository reads clients. Add exists for seeding reference data.
type ClientRepository interface {
	// Get returns errs.ObjectNotFoundError with kind "client" when absent.
	Get(ctx context.Context, id kernel.ID) (*party.Client, error)
	Add(ctx context.Context, client *party.Client) error
}

// ProducerRepository reads producers. Add exists for seeding reference data.
type ProducerRepository interface {
	// Get returns errs.ObjectNotFoundError with kind "producer" when absent.
	Get(ctx context.Context, id kernel.ID) (*party.Producer, error)
	Add(ctx context.Context, producer *party.Producer) error
}

// ProductRepository answers product existence. Add exists for seeding reference data.
type ProductRepository interface {
	Exists(ctx context.Context, id kernel.ID) (bool, error)
	Add(ctx context.Context, id kernel.ID, name string) error
}
