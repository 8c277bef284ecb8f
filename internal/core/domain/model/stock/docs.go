// Package stock provides the stock ledger vocabulary: the (producer, product)
// key, a ledger entry and a stock movement.
package stock
