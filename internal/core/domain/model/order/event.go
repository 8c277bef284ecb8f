package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/stock"

	"github.com/google/uuid"
)

// ChangeKind names what happened to an order.
type ChangeKind string

const (
	// Created is emitted after validateAndCommit.
	Created ChangeKind = "order.created"
	// Updated is emitted after a reconciled replacement.
	Updated ChangeKind = "order.updated"
	// Deleted is emitted after the order was removed and its stock restored.
	Deleted ChangeKind = "order.deleted"
)

// ChangedEvent describes a committed change of an order and the stock it moved.
type ChangedEvent struct {
	ID         uuid.UUID
	Kind       ChangeKind
	OrderID    kernel.ID
	ClientID   kernel.ID
	OccurredAt time.Time
	Debited    []stock.Movement
	Credited   []stock.Movement
}

// NewChangedEvent builds an event with a fresh identifier.
func NewChangedEvent(kind ChangeKind, o *Order, debited, credited []stock.Movement) ChangedEvent {
	return ChangedEvent{
		ID:         uuid.New(),
		Kind:       kind,
		OrderID:    o.ID(),
		ClientID:   o.ClientID(),
		OccurredAt: time.Now().UTC(),
		Debited:    debited,
		Credited:   credited,
	}
}
