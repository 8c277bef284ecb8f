package kernel

import (
	"fmt"
	"math"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrDistanceIsNotConstructed is returned when validating a zero-value Distance.
var ErrDistanceIsNotConstructed = errs.NewValueIsRequiredError("distance must be created via NewDistance")

// Distance is a non-negative length in kilometers. It is used both for the
// delivery radius of a producer and for the distance returned by the oracle.
type Distance struct { //nolint:recvcheck //using for validation
	km    float64
	guard guard.ConstructorGuard
}

// NewDistance creates a Distance. Negative, NaN and infinite values are rejected.
func NewDistance(km float64) (Distance, error) {
	d := Distance{guard: guard.NewConstructorGuard()}
	if err := d.setKilometers(km); err != nil {
		return Distance{}, err
	}
	return d, nil
}

// Validate checks that the Distance was built with NewDistance.
func (d Distance) Validate() error {
	return d.guard.Validate(ErrDistanceIsNotConstructed)
}

// Kilometers returns the length in kilometers.
func (d Distance) Kilometers() float64 {
	return d.km
}

// Exceeds reports whether d is strictly longer than limit.
func (d Distance) Exceeds(limit Distance) bool {
	return d.km > limit.km
}

func (d Distance) String() string {
	return fmt.Sprintf("%.3fkm", d.km)
}

func (d *Distance) setKilometers(km float64) error {
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 {
		return errs.NewValueIsOutOfRangeError("distance", km, 0, math.MaxFloat64)
	}
	d.km = km
	return nil
}
