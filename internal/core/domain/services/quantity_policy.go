package services

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// QuantityPolicy decides how the allocations of a line item must add up.
type QuantityPolicy string

const (
	// QuantityPolicyNone accepts any allocated total.
	QuantityPolicyNone QuantityPolicy = "none"
	// QuantityPolicyNotExceed rejects allocations adding up to more than requested.
	QuantityPolicyNotExceed QuantityPolicy = "not_exceed"
	// QuantityPolicyExact requires allocations to add up to exactly the requested quantity.
	QuantityPolicyExact QuantityPolicy = "exact"
)

// DefaultQuantityPolicy is used when no policy is configured.
const DefaultQuantityPolicy = QuantityPolicyNotExceed

// ParseQuantityPolicy parses a configured policy name; the empty string yields the default.
func ParseQuantityPolicy(s string) (QuantityPolicy, error) {
	switch p := QuantityPolicy(s); p {
	case "":
		return DefaultQuantityPolicy, nil
	case QuantityPolicyNone, QuantityPolicyNotExceed, QuantityPolicyExact:
		return p, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("quantity policy",
			fmt.Errorf("unknown policy %q", s))
	}
}

// Check verifies the allocated total of a line item.
// Violations are reported as errs.ValueIsOutOfRangeError.
func (p QuantityPolicy) Check(li *order.LineItem, allocated kernel.Quantity) error {
	requested := li.Quantity()
	switch p {
	case QuantityPolicyNotExceed:
		if allocated.GreaterThan(requested) {
			return errs.NewValueIsOutOfRangeError("allocated quantity", allocated, "0", requested)
		}
	case QuantityPolicyExact:
		if !allocated.Equal(requested) {
			return errs.NewValueIsOutOfRangeError("allocated quantity", allocated, requested, requested)
		}
	case QuantityPolicyNone:
	}
	return nil
}
