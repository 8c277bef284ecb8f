// Package geo computes distances between locations for the delivery radius check.
package geo

import (
	"context"
	"errors"
	"math"

	"fulfillment/internal/core/domain/model/kernel"
)

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371.0088

// HaversineOracle returns the great-circle distance between two locations.
// It fails only on a cancelled context or an unconstructed location.
type HaversineOracle struct{}

// NewHaversineOracle creates the oracle.
func NewHaversineOracle() *HaversineOracle {
	return &HaversineOracle{}
}

// Distance returns the distance in kilometers from one location to the other.
func (HaversineOracle) Distance(ctx context.Context, from, to kernel.Location) (kernel.Distance, error) {
	if err := ctx.Err(); err != nil {
		return kernel.Distance{}, err
	}
	if err := errors.Join(from.Validate(), to.Validate()); err != nil {
		return kernel.Distance{}, err
	}

	lat1, lat2 := radians(from.Latitude()), radians(to.Latitude())
	dLat := lat2 - lat1
	dLon := radians(to.Longitude() - from.Longitude())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return kernel.NewDistance(earthRadiusKm * c)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
