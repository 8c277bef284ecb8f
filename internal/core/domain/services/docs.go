// Package services provides the domain services of the fulfillment engine. They
// implement the rules that span an order aggregate, the producers fulfilling it
// and their stock, and that therefore belong to no single entity.
//
// The package includes:
//   - DistanceGate: decides whether a producer may deliver to a client
//   - Validator: checks a candidate aggregate and plans the stock debits it needs
//   - Reconcile: diffs a stored aggregate against its replacement
//   - QuantityPolicy: how allocation quantities must relate to their line item
//
// Validation never mutates anything. Callers apply the returned Plan inside the
// same unit of work that persists the aggregate.
package services
