package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kostmate/booking-api/internal/core/domain"
)

func TestPartnerHandler_ListOrders(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	mine := f.book(t, budi, "laundry")
	open := f.book(t, siti, "gallon")
	f.book(t, budi, "lamp")

	if err := f.ledger.SetStatus(ctx, mine.ID, domain.StatusInProgress, partner.ID, partner.Name); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if err := f.ledger.AssignPartner(ctx, open.ID, "99", "Someone Else"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	rec, err := f.do(f.partner.ListOrders, call{method: http.MethodGet, identity: partner})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	got := decodeList(t, rec)
	if got.Total != 2 {
		t.Fatalf("expected own and assigned orders, got %d", got.Total)
	}
}

func TestPartnerHandler_SetStatus(t *testing.T) {
	f := newHandlerFixture(t)
	o := f.book(t, budi, "cleaning")
	if err := f.ledger.AssignPartner(context.Background(), o.ID, "2", "Admin Pick"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	rec, err := f.do(f.partner.SetStatus, call{method: http.MethodPatch, body: `{"status":"in_progress"}`, identity: partner, id: o.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	got := decodeOrder(t, rec)
	if got.Status != "in_progress" || got.PartnerID != partner.ID || got.PartnerName != partner.Name {
		t.Fatalf("unexpected order: %+v", got)
	}

	rec, err = f.do(f.partner.SetStatus, call{method: http.MethodPatch, body: `{"status":"completed"}`, identity: partner, id: o.ID})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got := decodeOrder(t, rec); got.Status != "completed" || got.Links.Review == "" {
		t.Fatalf("completed order should be reviewable: %+v", got)
	}
}

func TestPartnerHandler_SetStatus_Rejected(t *testing.T) {
	f := newHandlerFixture(t)
	o := f.book(t, budi, "cleaning")

	// Still pending and not this partner's job.
	_, err := f.do(f.partner.SetStatus, call{method: http.MethodPatch, body: `{"status":"in_progress"}`, identity: partner, id: o.ID})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	_, err = f.do(f.partner.SetStatus, call{method: http.MethodPatch, body: `{"status":"cancelled"}`, identity: partner, id: o.ID})
	if code := httpCode(t, err); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestPartnerHandler_Stats(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	o := f.book(t, budi, "cleaning")
	if err := f.ledger.SetStatus(ctx, o.ID, domain.StatusCompleted, partner.ID, partner.Name); err != nil {
		t.Fatalf("set status: %v", err)
	}

	rec, err := f.do(f.partner.Stats, call{method: http.MethodGet, identity: partner})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var got partnerStatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.CompletedOrders != 1 || got.Earnings != 32000 || got.TodayOrders != 1 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}
