package commands

import (
	"errors"

	"fulfillment/internal/core/domain/services"
)

// ValidatorFactory builds a Validator whose lookups go through one unit of work,
// so the checks read the same transaction the debits are applied in.
type ValidatorFactory struct {
	gate   *services.DistanceGate
	policy services.QuantityPolicy
}

// NewValidatorFactory creates a factory sharing the gate and policy across validators.
func NewValidatorFactory(gate *services.DistanceGate, policy services.QuantityPolicy) (*ValidatorFactory, error) {
	if gate == nil {
		return nil, errors.New("distance gate is nil")
	}
	return &ValidatorFactory{gate: gate, policy: policy}, nil
}

// For returns a validator bound to uow.
func (f *ValidatorFactory) For(uow FulfillmentUoW) (*services.Validator, error) {
	return services.NewValidator(services.ValidatorDeps{
		Clients:   uow.ClientRepository(),
		Producers: uow.ProducerRepository(),
		Products:  uow.ProductRepository(),
		Orders:    uow.OrderRepository(),
		Stock:     uow.StockLedger(),
		Gate:      f.gate,
		Policy:    f.policy,
	})
}
