package party

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrProducerIsNotConstructed is returned when a Producer was not created via NewProducer.
var ErrProducerIsNotConstructed = errors.New("Producer must be created via NewProducer constructor")

// Producer fulfils allocations from its own stock and delivers to clients
// within its delivery radius.
type Producer struct {
	id       kernel.ID
	name     string
	location kernel.Location
	radius   kernel.Distance

	isConstructed bool
}

// NewProducer creates a producer.
//
// Parameters:
//   - id: producer identifier
//   - name: display name, required
//   - location: where the producer ships from
//   - radius: maximum delivery distance
func NewProducer(id kernel.ID, name string, location kernel.Location, radius kernel.Distance) (*Producer, error) {
	p := &Producer{isConstructed: true}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setLocation(location),
		p.setRadius(radius),
	); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate ensures the Producer was created via NewProducer.
func (p *Producer) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProducerIsNotConstructed
	}
	return nil
}

// ID returns the producer identifier.
func (p *Producer) ID() kernel.ID { return p.id }

// Name returns the display name.
func (p *Producer) Name() string { return p.name }

// Location returns where the producer ships from.
func (p *Producer) Location() kernel.Location { return p.location }

// Radius returns the delivery radius.
func (p *Producer) Radius() kernel.Distance { return p.radius }

func (p *Producer) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Producer) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Producer) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	p.location = location
	return nil
}

func (p *Producer) setRadius(radius kernel.Distance) error {
	if err := radius.Validate(); err != nil {
		return err
	}
	p.radius = radius
	return nil
}
