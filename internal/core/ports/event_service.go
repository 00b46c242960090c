package ports

import (
	"context"

	"github.com/kostmate/booking-api/internal/core/domain"
)

// EventPublisher fans ledger mutations out to subscribers.
type EventPublisher interface {
	Publish(event domain.OrderEvent)
}

// EventService processes published order events.
type EventService interface {
	Process(ctx context.Context, event domain.OrderEvent) error
	History(ctx context.Context, orderID string) ([]*domain.OrderEvent, error)
}
