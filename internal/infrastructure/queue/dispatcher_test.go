package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kostmate/booking-api/internal/core/domain"
)

type recordingService struct {
	mu      sync.Mutex
	byOrder map[string][]domain.OrderStatus
	fail    string
}

func (s *recordingService) Process(_ context.Context, ev domain.OrderEvent) error {
	if ev.OrderID == s.fail {
		return errors.New("boom")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byOrder[ev.OrderID] = append(s.byOrder[ev.OrderID], ev.Status)
	return nil
}

func (s *recordingService) History(context.Context, string) ([]*domain.OrderEvent, error) {
	return nil, nil
}

func TestDispatcher_PreservesPerOrderOrdering(t *testing.T) {
	svc := &recordingService{byOrder: map[string][]domain.OrderStatus{}}
	d := NewDispatcher(3, svc, zerolog.Nop())
	d.Start(context.Background())

	lifecycle := []domain.OrderStatus{
		domain.StatusPending, domain.StatusAssigned, domain.StatusInProgress, domain.StatusCompleted,
	}
	for _, st := range lifecycle {
		for i := 0; i < 20; i++ {
			d.Publish(domain.OrderEvent{OrderID: fmt.Sprintf("order-%d", i), Status: st})
		}
	}
	d.Close()
	d.Wait()

	if len(svc.byOrder) != 20 {
		t.Fatalf("expected 20 orders, got %d", len(svc.byOrder))
	}
	for id, got := range svc.byOrder {
		if len(got) != len(lifecycle) {
			t.Fatalf("%s: expected %d events, got %v", id, len(lifecycle), got)
		}
		for i := range lifecycle {
			if got[i] != lifecycle[i] {
				t.Fatalf("%s: out of order: %v", id, got)
			}
		}
	}
}

func TestDispatcher_ContinuesAfterFailure(t *testing.T) {
	svc := &recordingService{byOrder: map[string][]domain.OrderStatus{}, fail: "bad"}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())

	d.Publish(domain.OrderEvent{OrderID: "bad", Status: domain.StatusPending})
	d.Publish(domain.OrderEvent{OrderID: "good", Status: domain.StatusPending})
	d.Close()
	d.Wait()

	if len(svc.byOrder["good"]) != 1 {
		t.Fatalf("worker must keep going after a failed event")
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	for _, id := range []string{"a", "order-1", "0b5f"} {
		first := d.shardIndex(id)
		if first < 0 || first >= defaultWorkers || d.shardIndex(id) != first {
			t.Fatalf("unstable shard for %q", id)
		}
	}
}
