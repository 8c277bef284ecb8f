package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderEventPublisher announces committed order changes to other systems.
type OrderEventPublisher interface {
	Publish(ctx context.Context, event order.ChangedEvent) error
}
