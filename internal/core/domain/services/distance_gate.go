package services

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/party"
)

// DistanceOracle computes the distance between two points.
type DistanceOracle interface {
	Distance(ctx context.Context, from, to kernel.Location) (kernel.Distance, error)
}

// DistanceGate answers whether a producer may serve a client given its delivery radius.
type DistanceGate struct {
	oracle DistanceOracle
}

// NewDistanceGate wraps an oracle.
func NewDistanceGate(oracle DistanceOracle) (*DistanceGate, error) {
	if oracle == nil {
		return nil, errors.New("distance oracle is nil")
	}
	return &DistanceGate{oracle: oracle}, nil
}

// CanDeliver returns nil when the client lies within the producer's radius and
// *OutOfRangeError when it lies strictly beyond it. Oracle failures are returned
// as they are and are not retried.
func (g *DistanceGate) CanDeliver(ctx context.Context, producer *party.Producer, client *party.Client) error {
	if err := errors.Join(producer.Validate(), client.Validate()); err != nil {
		return err
	}

	distance, err := g.oracle.Distance(ctx, producer.Location(), client.Location())
	if err != nil {
		return fmt.Errorf("distance from producer %s to client %s: %w", producer.ID(), client.ID(), err)
	}

	if distance.Exceeds(producer.Radius()) {
		return &OutOfRangeError{
			ProducerID: producer.ID(),
			RadiusKm:   producer.Radius().Kilometers(),
			DistanceKm: distance.Kilometers(),
		}
	}
	return nil
}
