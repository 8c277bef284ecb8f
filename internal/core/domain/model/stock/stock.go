package stock

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrEntryIsNotConstructed is returned when an Entry was not created via NewEntry.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Key identifies a stock entry: one producer's stock of one product.
// Key is comparable and used as a map key.
type Key struct {
	ProducerID kernel.ID
	ProductID  kernel.ID
}

// NewKey builds a key from valid identifiers.
func NewKey(producerID, productID kernel.ID) (Key, error) {
	if err := errors.Join(producerID.Validate(), productID.Validate()); err != nil {
		return Key{}, err
	}
	return Key{ProducerID: producerID, ProductID: productID}, nil
}

func (k Key) String() string {
	return fmt.Sprintf("producer %s/product %s", k.ProducerID, k.ProductID)
}

// Entry is the available quantity of a product at a producer.
type Entry struct {
	key       Key
	available kernel.Quantity

	isConstructed bool
}

// NewEntry creates a ledger entry.
func NewEntry(key Key, available kernel.Quantity) (Entry, error) {
	if err := errors.Join(key.ProducerID.Validate(), key.ProductID.Validate(), available.Validate()); err != nil {
		return Entry{}, err
	}
	return Entry{key: key, available: available, isConstructed: true}, nil
}

// Validate ensures the Entry was created via NewEntry.
func (e Entry) Validate() error {
	if !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// Key returns the (producer, product) key.
func (e Entry) Key() Key { return e.key }

// Available returns the available quantity.
func (e Entry) Available() kernel.Quantity { return e.available }

// Movement is a quantity debited from or credited to a stock entry.
type Movement struct {
	Key      Key
	Quantity kernel.Quantity
}

// Movements accumulates quantities per key, preserving first-seen key order.
type Movements struct {
	order  []Key
	totals map[Key]kernel.Quantity
}

// NewMovements returns an empty accumulator.
func NewMovements() *Movements {
	return &Movements{totals: make(map[Key]kernel.Quantity)}
}

// Add accumulates q under key.
func (m *Movements) Add(key Key, q kernel.Quantity) {
	current, ok := m.totals[key]
	if !ok {
		m.order = append(m.order, key)
		current = kernel.ZeroQuantity()
	}
	m.totals[key] = current.Add(q)
}

// Total returns the accumulated quantity of key, zero when absent.
func (m *Movements) Total(key Key) kernel.Quantity {
	if q, ok := m.totals[key]; ok {
		return q
	}
	return kernel.ZeroQuantity()
}

// List returns one movement per key in first-seen order.
func (m *Movements) List() []Movement {
	out := make([]Movement, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, Movement{Key: k, Quantity: m.totals[k]})
	}
	return out
}

// Len returns the number of distinct keys.
func (m *Movements) Len() int {
	return len(m.order)
}
