package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrOutOfDeliveryRange is the sentinel wrapped by every OutOfRangeError.
var ErrOutOfDeliveryRange = errors.New("client is out of the producer's delivery range")

// OutOfRangeError reports a client located farther than a producer's delivery radius.
type OutOfRangeError struct {
	ProducerID kernel.ID
	RadiusKm   float64
	DistanceKm float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: producer %s delivers within %gkm, client is %gkm away",
		ErrOutOfDeliveryRange, e.ProducerID, e.RadiusKm, e.DistanceKm)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfDeliveryRange
}

// ValidationError carries the first failure met while validating an aggregate,
// together with the kind and id of the part being checked.
// The underlying error stays reachable through errors.Is and errors.As.
type ValidationError struct {
	Kind string
	ID   kernel.ID
	Err  error
}

func newValidationError(kind string, id kernel.ID, err error) *ValidationError {
	return &ValidationError{Kind: kind, ID: id, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s rejected: %s", e.Kind, e.ID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
