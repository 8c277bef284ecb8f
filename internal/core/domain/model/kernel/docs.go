// Package kernel provides the shared value objects of the fulfillment domain.
//
// The package includes:
//   - ID: a positive 64-bit identifier used by orders, line items, allocations,
//     clients, producers and products
//   - Quantity: a non-negative exact decimal amount of a product
//   - Location: a latitude/longitude pair
//   - Distance: a non-negative distance in kilometers
//
// All value objects are immutable, carry a constructor guard and reject a zero
// value in Validate.
package kernel
