package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the header of an order placed by a client.
//
// Order follows these invariants:
//   - Must have a valid identifier, immutable once assigned
//   - Must reference a valid client
//   - Placement time is stored in UTC
type Order struct {
	// id is the caller supplied identifier of the order
	id kernel.ID

	// clientID references the client who placed the order
	clientID kernel.ID

	// placedAt is the placement timestamp
	placedAt time.Time

	// isConstructed ensures the order was created via NewOrder
	isConstructed bool
}

// NewOrder creates a new Order header with validation.
//
// Parameters:
//   - id: identifier of the order
//   - clientID: identifier of the client placing the order
//   - placedAt: placement time; the zero time is replaced by the current time
//
// Returns:
//   - *Order: the created order if all validations pass
//   - error: joined validation errors otherwise
//
// Example:
//
//	id, _ := kernel.NewID(1)
//	client, _ := kernel.NewID(5)
//	o, err := order.NewOrder(id, client, time.Time{})
func NewOrder(id kernel.ID, clientID kernel.ID, placedAt time.Time) (*Order, error) {
	o := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setClientID(clientID),
	); err != nil {
		return nil, err
	}
	o.setPlacedAt(placedAt)

	return o, nil
}

// Validate ensures the Order instance was properly constructed through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two headers by value.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil &&
		o.id == other.id &&
		o.clientID == other.clientID &&
		o.placedAt.Equal(other.placedAt)
}

// ID returns the order's identifier.
func (o *Order) ID() kernel.ID {
	return o.id
}

// ClientID returns the identifier of the owning client.
func (o *Order) ClientID() kernel.ID {
	return o.clientID
}

// PlacedAt returns the placement time in UTC.
func (o *Order) PlacedAt() time.Time {
	return o.placedAt
}

func (o *Order) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setClientID(clientID kernel.ID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}
	o.clientID = clientID
	return nil
}

// setPlacedAt truncates to microseconds, the precision postgres keeps,
// so a reloaded header compares equal to the committed one.
func (o *Order) setPlacedAt(placedAt time.Time) {
	if placedAt.IsZero() {
		placedAt = time.Now()
	}
	o.placedAt = placedAt.UTC().Truncate(time.Microsecond)
}
