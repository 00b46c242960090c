package ports

import (
	"context"

	"github.com/kostmate/booking-api/internal/core/domain"
)

// EventRepository persists the order audit trail.
type EventRepository interface {
	InsertEvent(ctx context.Context, event *domain.OrderEvent) error
	// ListByOrder returns events for one order, oldest first.
	ListByOrder(ctx context.Context, orderID string) ([]*domain.OrderEvent, error)
}
