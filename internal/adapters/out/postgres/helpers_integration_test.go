package postgres_test

import (
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
)

type fulfillmentFactory struct {
	factory ports.UnitOfWorkFactory
}

func (f fulfillmentFactory) Create() commands.FulfillmentUoW {
	return f.factory.Create()
}
