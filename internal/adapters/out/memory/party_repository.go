package memory

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/party"
	"fulfillment/internal/pkg/errs"
)

type clientRepository struct {
	uow *UnitOfWork
}

func (r *clientRepository) Get(_ context.Context, id kernel.ID) (*party.Client, error) {
	s, err := r.uow.current()
	if err != nil {
		return nil, err
	}
	c, ok := s.clients[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("client", id)
	}
	return c, nil
}

func (r *clientRepository) Add(_ context.Context, client *party.Client) error {
	if err := client.Validate(); err != nil {
		return err
	}
	s, err := r.uow.current()
	if err != nil {
		return err
	}
	if _, ok := s.clients[client.ID()]; ok {
		return errs.NewObjectAlreadyExistsError("client", client.ID())
	}
	s.clients[client.ID()] = client
	return nil
}

type producerRepository struct {
	uow *UnitOfWork
}

func (r *producerRepository) Get(_ context.Context, id kernel.ID) (*party.Producer, error) {
	s, err := r.uow.current()
	if err != nil {
		return nil, err
	}
	p, ok := s.producers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("producer", id)
	}
	return p, nil
}

func (r *producerRepository) Add(_ context.Context, producer *party.Producer) error {
	if err := producer.Validate(); err != nil {
		return err
	}
	s, err := r.uow.current()
	if err != nil {
		return err
	}
	if _, ok := s.producers[producer.ID()]; ok {
		return errs.NewObjectAlreadyExistsError("producer", producer.ID())
	}
	s.producers[producer.ID()] = producer
	return nil
}

type productRepository struct {
	uow *UnitOfWork
}

func (r *productRepository) Exists(_ context.Context, id kernel.ID) (bool, error) {
	s, err := r.uow.current()
	if err != nil {
		return false, err
	}
	_, ok := s.products[id]
	return ok, nil
}

func (r *productRepository) Add(_ context.Context, id kernel.ID, name string) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	s, err := r.uow.current()
	if err != nil {
		return err
	}
	if _, ok := s.products[id]; ok {
		return errs.NewObjectAlreadyExistsError("product", id)
	}
	s.products[id] = name
	return nil
}
