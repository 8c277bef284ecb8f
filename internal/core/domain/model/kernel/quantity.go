package kernel

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrQuantityIsNotConstructed is returned when validating a Quantity built without a constructor.
var ErrQuantityIsNotConstructed = errs.NewValueIsRequiredError(
	"quantity must be created via NewQuantity, QuantityFromFloat, QuantityFromString or ZeroQuantity")

// QuantityScale is the number of fractional digits a quantity may carry.
const QuantityScale = 6

// MaxQuantity is the exclusive upper bound of a quantity.
var MaxQuantity = decimal.New(1, 14)

// ErrQuantityTooPrecise is the cause reported for a value with more than QuantityScale fractional digits.
var ErrQuantityTooPrecise = errors.New("quantity has more than 6 fractional digits")

// ErrNegativeQuantity is the cause reported when an arithmetic result would drop below zero.
var ErrNegativeQuantity = errors.New("quantity cannot be negative")

// Quantity is a non-negative exact amount of a product.
//
// Quantities are backed by an arbitrary precision decimal so that comparisons at the
// stock boundary are exact: 10 is sufficient for 10 and 10.001 is not.
//
// Example:
//
//	requested, _ := kernel.QuantityFromString("2.5")
//	available, _ := kernel.QuantityFromFloat(10)
//	if requested.GreaterThan(available) {
//	    // insufficient stock
//	}
type Quantity struct { //nolint:recvcheck //using for validation
	value decimal.Decimal
	guard guard.ConstructorGuard
}

// NewQuantity creates a Quantity from a decimal value.
//
// Returns:
//   - Quantity: a valid quantity
//   - error: ValueIsOutOfRangeError when value is negative or not below MaxQuantity,
//     ValueIsInvalidError when it has more than QuantityScale fractional digits
func NewQuantity(value decimal.Decimal) (Quantity, error) {
	q := Quantity{guard: guard.NewConstructorGuard()}
	if err := q.setValue(value); err != nil {
		return Quantity{}, err
	}
	return q, nil
}

// QuantityFromFloat creates a Quantity from a float value.
func QuantityFromFloat(value float64) (Quantity, error) {
	return NewQuantity(decimal.NewFromFloat(value))
}

// QuantityFromString parses a decimal string such as "10", "2.5" or "0.001".
func QuantityFromString(value string) (Quantity, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Quantity{}, errs.NewValueIsInvalidErrorWithCause("quantity", err)
	}
	return NewQuantity(d)
}

// ZeroQuantity returns a constructed quantity equal to zero.
func ZeroQuantity() Quantity {
	return Quantity{value: decimal.Zero, guard: guard.NewConstructorGuard()}
}

// Validate returns ErrQuantityIsNotConstructed for a zero-value Quantity.
func (q Quantity) Validate() error {
	return q.guard.Validate(ErrQuantityIsNotConstructed)
}

// Decimal returns the underlying decimal value.
func (q Quantity) Decimal() decimal.Decimal {
	return q.value
}

// Float64 returns the nearest float representation, for metrics and logs.
func (q Quantity) Float64() float64 {
	f, _ := q.value.Float64()
	return f
}

// String returns the exact decimal representation.
func (q Quantity) String() string {
	return q.value.String()
}

// Add returns q + other.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value), guard: guard.NewConstructorGuard()}
}

// Sub returns q - other, failing when the result would be negative.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	result := q.value.Sub(other.value)
	if result.IsNegative() {
		return Quantity{}, errs.NewValueIsOutOfRangeErrorWithCause(
			"quantity", result.String(), "0", q.value.String(), ErrNegativeQuantity)
	}
	return Quantity{value: result, guard: guard.NewConstructorGuard()}, nil
}

// Cmp compares two quantities and returns -1, 0 or +1.
func (q Quantity) Cmp(other Quantity) int {
	return q.value.Cmp(other.value)
}

// Equal reports whether both quantities hold the same amount, regardless of scale.
func (q Quantity) Equal(other Quantity) bool {
	return q.value.Equal(other.value)
}

// GreaterThan reports whether q > other.
func (q Quantity) GreaterThan(other Quantity) bool {
	return q.value.GreaterThan(other.value)
}

// LessThan reports whether q < other.
func (q Quantity) LessThan(other Quantity) bool {
	return q.value.LessThan(other.value)
}

// IsZero reports whether the quantity equals zero.
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

func (q *Quantity) setValue(value decimal.Decimal) error {
	if value.IsNegative() {
		return errs.NewValueIsOutOfRangeError("quantity", value.String(), "0", MaxQuantity.String())
	}
	if value.GreaterThanOrEqual(MaxQuantity) {
		return errs.NewValueIsOutOfRangeError("quantity", value.String(), "0", MaxQuantity.String())
	}
	if !value.Equal(value.Round(QuantityScale)) {
		return errs.NewValueIsInvalidErrorWithCause("quantity", ErrQuantityTooPrecise)
	}
	q.value = value
	return nil
}
