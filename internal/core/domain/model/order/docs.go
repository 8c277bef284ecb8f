// Package order provides the order aggregate of the fulfillment domain.
//
// The package includes:
//   - Order: the header with the owning client and placement time
//   - LineItem: a requested quantity of one product
//   - Allocation: the part of a line item fulfilled by one producer
//   - Aggregate: an Order with all of its line items and allocations
//   - ChangedEvent: the notification emitted after an aggregate is committed
//
// Key business rules:
//   - Every line item of an aggregate belongs to the aggregate's order
//   - Every allocation belongs to one of the aggregate's line items
//   - Identifiers are unique inside an aggregate
//   - Quantities are never negative
//
// The aggregate is transient. It is never stored as a unit; repositories persist
// the header, the line items and the allocations individually.
package order
