package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

type eventService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewEventService returns an EventService that records the order audit trail.
func NewEventService(repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, log: log}
}

// Process persists a single order event.
func (s *eventService) Process(ctx context.Context, ev domain.OrderEvent) error {
	if ev.OrderID == "" {
		return fmt.Errorf("process event: %w", domain.ErrOrderNotFound)
	}

	if err := s.repo.InsertEvent(ctx, &ev); err != nil {
		return fmt.Errorf("process event: insert: %w", err)
	}

	s.log.Debug().
		Str("order_id", ev.OrderID).
		Str("kind", string(ev.Kind)).
		Str("status", string(ev.Status)).
		Msg("event recorded")
	return nil
}

func (s *eventService) History(ctx context.Context, orderID string) ([]*domain.OrderEvent, error) {
	return s.repo.ListByOrder(ctx, orderID)
}
