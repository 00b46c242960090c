package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

func seed(t *testing.T, r *OrderRepository, orders ...*domain.Order) {
	t.Helper()
	for _, o := range orders {
		if err := r.Create(context.Background(), o); err != nil {
			t.Fatalf("seed %s: %v", o.ID, err)
		}
	}
}

func ids(orders []*domain.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOrderRepository_ListKeepsInsertionOrder(t *testing.T) {
	r := NewOrderRepository()
	seed(t, r,
		&domain.Order{ID: "c", UserID: "u1", Status: domain.StatusPending},
		&domain.Order{ID: "a", UserID: "u2", Status: domain.StatusPending},
		&domain.Order{ID: "b", UserID: "u1", Status: domain.StatusCompleted},
	)
	ctx := context.Background()

	all, _ := r.List(ctx, ports.OrderFilter{})
	if got := ids(all); !equalIDs(got, []string{"c", "a", "b"}) {
		t.Fatalf("unexpected order: %v", got)
	}

	mine, _ := r.ListByOwner(ctx, "u1")
	if got := ids(mine); !equalIDs(got, []string{"c", "b"}) {
		t.Fatalf("unexpected owner listing: %v", got)
	}

	pending, _ := r.List(ctx, ports.OrderFilter{Status: domain.StatusPending})
	if got := ids(pending); !equalIDs(got, []string{"c", "a"}) {
		t.Fatalf("unexpected status listing: %v", got)
	}
}

func TestOrderRepository_PartnerFilter(t *testing.T) {
	r := NewOrderRepository()
	seed(t, r,
		&domain.Order{ID: "1", Status: domain.StatusAssigned, PartnerID: "p1"},
		&domain.Order{ID: "2", Status: domain.StatusAssigned, PartnerID: "p2"},
		&domain.Order{ID: "3", Status: domain.StatusCompleted, PartnerID: "p2"},
		&domain.Order{ID: "4", Status: domain.StatusPending},
	)
	ctx := context.Background()

	own, _ := r.List(ctx, ports.OrderFilter{PartnerID: "p2"})
	if got := ids(own); !equalIDs(got, []string{"2", "3"}) {
		t.Fatalf("unexpected partner listing: %v", got)
	}

	withUnclaimed, _ := r.List(ctx, ports.OrderFilter{PartnerID: "p2", IncludeUnclaimed: true})
	if got := ids(withUnclaimed); !equalIDs(got, []string{"1", "2", "3"}) {
		t.Fatalf("unexpected partner listing with unclaimed: %v", got)
	}
}

func TestOrderRepository_ReturnsClones(t *testing.T) {
	r := NewOrderRepository()
	in := &domain.Order{ID: "1", Status: domain.StatusPending}
	seed(t, r, in)
	ctx := context.Background()

	in.Status = domain.StatusCancelled
	got, _ := r.FindByID(ctx, "1")
	if got.Status != domain.StatusPending {
		t.Fatalf("stored order must not alias the caller's value")
	}

	got.Status = domain.StatusCompleted
	again, _ := r.FindByID(ctx, "1")
	if again.Status != domain.StatusPending {
		t.Fatalf("returned order must not alias the stored value")
	}

	reviewed, _ := r.SetReview(ctx, "1", domain.Review{Rating: 4})
	reviewed.Review.Rating = 1
	again, _ = r.FindByID(ctx, "1")
	if again.Review.Rating != 4 {
		t.Fatalf("review must be copied on read, got %d", again.Review.Rating)
	}
}

func TestOrderRepository_UpdateStatusKeepsPartnerWhenEmpty(t *testing.T) {
	r := NewOrderRepository()
	seed(t, r, &domain.Order{ID: "1", Status: domain.StatusPending})
	ctx := context.Background()

	if _, err := r.UpdateStatus(ctx, "1", domain.StatusAssigned, "p1", "Budi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o, err := r.UpdateStatus(ctx, "1", domain.StatusInProgress, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.PartnerID != "p1" || o.PartnerName != "Budi" || o.Status != domain.StatusInProgress {
		t.Fatalf("unexpected order: %+v", o)
	}

	o, _ = r.UpdatePayment(ctx, "1", domain.PaymentPaid)
	if o.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("expected paid, got %s", o.PaymentStatus)
	}
}

func TestOrderRepository_Assign(t *testing.T) {
	r := NewOrderRepository()
	seed(t, r, &domain.Order{ID: "1", Status: domain.StatusPending, PaymentStatus: domain.PaymentPending})
	ctx := context.Background()

	o, err := r.Assign(ctx, "1", "p1", "Budi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Status != domain.StatusAssigned || o.PaymentStatus != domain.PaymentPaid || o.PartnerID != "p1" {
		t.Fatalf("unexpected order: %+v", o)
	}
	if _, err := r.Assign(ctx, "missing", "p1", "Budi"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_NotFoundAndDuplicate(t *testing.T) {
	r := NewOrderRepository()
	seed(t, r, &domain.Order{ID: "1"})
	ctx := context.Background()

	if _, err := r.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if _, err := r.UpdateStatus(ctx, "missing", domain.StatusAssigned, "", ""); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if err := r.Create(ctx, &domain.Order{ID: "1"}); err == nil {
		t.Fatalf("expected duplicate id to be rejected")
	}
}
