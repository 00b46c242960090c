package memory

import (
	"context"
	"sync"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

var _ ports.EventRepository = (*EventRepository)(nil)

// EventRepository keeps the order audit trail in memory.
type EventRepository struct {
	mu      sync.RWMutex
	byOrder map[string][]domain.OrderEvent
}

func NewEventRepository() *EventRepository {
	return &EventRepository{byOrder: map[string][]domain.OrderEvent{}}
}

func (r *EventRepository) InsertEvent(_ context.Context, event *domain.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOrder[event.OrderID] = append(r.byOrder[event.OrderID], *event)
	return nil
}

func (r *EventRepository) ListByOrder(_ context.Context, orderID string) ([]*domain.OrderEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := r.byOrder[orderID]
	out := make([]*domain.OrderEvent, len(events))
	for i := range events {
		ev := events[i]
		out[i] = &ev
	}
	return out, nil
}
