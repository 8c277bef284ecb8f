package kernel

import (
	"math"
	"strconv"

	"fulfillment/internal/pkg/errs"
)

// ErrIDIsNotConstructed is returned when validating a zero-value ID.
var ErrIDIsNotConstructed = errs.NewValueIsRequiredError("ID must be created via NewID or ParseID")

// ID identifies an entity of the fulfillment domain.
// Identifiers are supplied by callers and are always strictly positive.
// ID is comparable and can be used as a map key.
//
// Example:
//
//	orderID, err := kernel.NewID(42)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(orderID) // 42
type ID struct {
	value int64
}

// NewID creates an ID from a positive integer.
//
// Returns:
//   - ID: the identifier
//   - error: ValueIsOutOfRangeError when value is not positive
func NewID(value int64) (ID, error) {
	if value <= 0 {
		return ID{}, errs.NewValueIsOutOfRangeError("id", value, 1, int64(math.MaxInt64))
	}
	return ID{value: value}, nil
}

// ParseID parses the decimal representation of an identifier.
// The param name is reported in the error when parsing fails.
func ParseID(param string, s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	id, err := NewID(v)
	if err != nil {
		return ID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}

// Int64 returns the raw identifier value.
func (id ID) Int64() int64 {
	return id.value
}

// IsZero reports whether the ID is the zero value.
func (id ID) IsZero() bool {
	return id.value == 0
}

// String returns the decimal representation of the identifier.
func (id ID) String() string {
	return strconv.FormatInt(id.value, 10)
}

// Validate returns ErrIDIsNotConstructed for a zero-value ID.
func (id ID) Validate() error {
	if id.value <= 0 {
		return ErrIDIsNotConstructed
	}
	return nil
}
