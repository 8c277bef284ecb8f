// Package party provides the clients who place orders and the producers who fulfil
// them. Both are read-only for the fulfillment engine.
package party
