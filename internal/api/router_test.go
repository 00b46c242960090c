package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
	"github.com/kostmate/booking-api/internal/core/service"
	"github.com/kostmate/booking-api/internal/infrastructure/db/memory"
)

type inlinePublisher struct {
	events ports.EventService
}

func (p inlinePublisher) Publish(ev domain.OrderEvent) {
	_ = p.events.Process(context.Background(), ev)
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	ctx := context.Background()

	directory := memory.NewDirectory()
	if err := service.SeedDirectory(ctx, directory); err != nil {
		t.Fatalf("seed directory: %v", err)
	}

	orders := memory.NewOrderRepository()
	events := service.NewEventService(memory.NewEventRepository(), zerolog.Nop())
	ledger := service.NewOrderService(orders, zerolog.Nop(),
		service.WithIdempotency(memory.NewIdempotencyStore()),
		service.WithEventPublisher(inlinePublisher{events: events}),
	)

	return NewRouter(Dependencies{
		Logger:     zerolog.Nop(),
		JWTSecret:  "test-secret",
		Identities: service.NewIdentityRegistry(service.NewDirectoryVerifier(directory), directory, memory.NewSessionProvider("kostmate_user"), zerolog.Nop()),
		Tokens:     service.NewJWTIssuer("test-secret", time.Hour),
		Ledger:     ledger,
		Stats:      service.NewStatsService(orders, service.DefaultPlatformShare),
		Events:     events,
		Now:        func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) },
	})
}

func send(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()
	rec := send(t, e, http.MethodPost, "/v1/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	token, _ := decode(t, rec)["token"].(string)
	if token == "" {
		t.Fatalf("login %s: empty token", email)
	}
	return token
}

func TestRouter_UnknownPath(t *testing.T) {
	e := newTestRouter(t)

	for _, path := range []string{"/nope", "/v1/nope", "/v1/admin/nope"} {
		rec := send(t, e, http.MethodGet, path, "", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
		if got := decode(t, rec)["error"]; got != "not found" {
			t.Fatalf("%s: unexpected error %v", path, got)
		}
	}
}

func TestRouter_Health(t *testing.T) {
	e := newTestRouter(t)

	if rec := send(t, e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}

	rec := send(t, e, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d", rec.Code)
	}
	deps, _ := decode(t, rec)["dependencies"].(map[string]any)
	mongo, _ := deps["mongodb"].(map[string]any)
	if mongo["status"] != "disabled" {
		t.Fatalf("expected mongodb disabled, got %v", deps)
	}
}

func TestRouter_Metrics(t *testing.T) {
	e := newTestRouter(t)
	send(t, e, http.MethodGet, "/v1/services", "", "")

	rec := send(t, e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "kostmate_http_requests_total") {
		t.Fatalf("expected http request metrics in output")
	}
}

func TestRouter_LoginFailure(t *testing.T) {
	e := newTestRouter(t)

	rec := send(t, e, http.MethodPost, "/v1/auth/login", "", `{"email":"user@kostmate.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := decode(t, rec)["error"]; got != "invalid credentials" {
		t.Fatalf("unexpected error %v", got)
	}
}

func TestRouter_RegisterDuplicateEmail(t *testing.T) {
	e := newTestRouter(t)

	rec := send(t, e, http.MethodPost, "/v1/auth/register", "", `{"name":"Copy","email":"user@kostmate.com","password":"secret1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestRouter_RegisterBlankName(t *testing.T) {
	e := newTestRouter(t)

	rec := send(t, e, http.MethodPost, "/v1/auth/register", "", `{"name":"   ","email":"blank@kost.id","password":"secret1"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_IdempotencyKeyIsPerUser(t *testing.T) {
	e := newTestRouter(t)

	register := func(name, email, address string) string {
		rec := send(t, e, http.MethodPost, "/v1/auth/register", "",
			`{"name":"`+name+`","email":"`+email+`","address":"`+address+`","password":"secret1"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("register %s: expected 201, got %d", email, rec.Code)
		}
		token, _ := decode(t, rec)["token"].(string)
		return token
	}
	book := func(token, details string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/orders",
			strings.NewReader(`{"service_id":"laundry","details":"`+details+`","date":"2026-03-10","time":"09:00"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		req.Header.Set("Idempotency-Key", "retry-1")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	a := register("Ani", "ani@kost.id", "Kamar A")
	b := register("Bayu", "bayu@kost.id", "Kamar B")

	recA := book(a, "note of Ani")
	recB := book(b, "note of Bayu")
	if recA.Code != http.StatusCreated || recB.Code != http.StatusCreated {
		t.Fatalf("expected 201/201, got %d/%d", recA.Code, recB.Code)
	}

	orderA, orderB := decode(t, recA), decode(t, recB)
	if orderA["id"] == orderB["id"] {
		t.Fatalf("users sharing a key must get distinct orders")
	}
	if orderB["address"] != "Kamar B" || orderB["details"] != "note of Bayu" {
		t.Fatalf("second user received foreign data: %v", orderB)
	}

	if rec := book(b, "note of Bayu"); rec.Code != http.StatusOK || decode(t, rec)["id"] != orderB["id"] {
		t.Fatalf("expected replay of the second user's own order, got %d", rec.Code)
	}
}

func TestRouter_RoleGuards(t *testing.T) {
	e := newTestRouter(t)
	user := login(t, e, "user@kostmate.com", "password123")

	if rec := send(t, e, http.MethodGet, "/v1/admin/stats", user, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("user on admin route: expected 403, got %d", rec.Code)
	}
	if rec := send(t, e, http.MethodGet, "/v1/partner/orders", user, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("user on partner route: expected 403, got %d", rec.Code)
	}
	if rec := send(t, e, http.MethodGet, "/v1/dashboard", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous dashboard: expected 401, got %d", rec.Code)
	}
}

func TestRouter_Logout(t *testing.T) {
	e := newTestRouter(t)
	token := login(t, e, "user@kostmate.com", "password123")

	if rec := send(t, e, http.MethodGet, "/v1/auth/me", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rec.Code)
	}
	if rec := send(t, e, http.MethodPost, "/v1/auth/logout", token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}
	if rec := send(t, e, http.MethodGet, "/v1/auth/me", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", rec.Code)
	}
}

func TestRouter_OrderLifecycle(t *testing.T) {
	e := newTestRouter(t)

	reg := send(t, e, http.MethodPost, "/v1/auth/register", "",
		`{"name":"Budi","email":"budi@example.com","password":"rahasia","address":"Jl. Kaliurang 5"}`)
	if reg.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", reg.Code, reg.Body.String())
	}
	user, _ := decode(t, reg)["token"].(string)

	// Book.
	rec := send(t, e, http.MethodPost, "/v1/orders", user, `{"service_id":"cleaning","date":"2026-03-10","time":"10:00"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("book: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	order := decode(t, rec)
	id, _ := order["id"].(string)
	if order["status"] != "pending" || order["payment_status"] != "pending" {
		t.Fatalf("unexpected new order: %v", order)
	}

	// Admin assigns.
	adminToken := login(t, e, "admin@kostmate.com", "admin123")
	rec = send(t, e, http.MethodPost, "/v1/admin/orders/"+id+"/assign", adminToken, `{"partner_id":"3","partner_name":"Partner Kostmate"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("assign: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec); got["status"] != "assigned" || got["payment_status"] != "paid" {
		t.Fatalf("unexpected assigned order: %v", got)
	}

	// Review is refused until completion.
	if rec := send(t, e, http.MethodPost, "/v1/orders/"+id+"/review", user, `{"rating":5}`); rec.Code != http.StatusConflict {
		t.Fatalf("early review: expected 409, got %d", rec.Code)
	}

	// Partner jumps straight to completed.
	partnerToken := login(t, e, "partner@kostmate.com", "partner123")
	rec = send(t, e, http.MethodPatch, "/v1/partner/orders/"+id+"/status", partnerToken, `{"status":"completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Owner reviews once.
	rec = send(t, e, http.MethodPost, "/v1/orders/"+id+"/review", user, `{"rating":4,"comment":"Rapi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("review: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := send(t, e, http.MethodPost, "/v1/orders/"+id+"/review", user, `{"rating":1}`); rec.Code != http.StatusConflict {
		t.Fatalf("second review: expected 409, got %d", rec.Code)
	}

	// Stats reflect the lifecycle.
	stats := decode(t, send(t, e, http.MethodGet, "/v1/admin/stats", adminToken, ""))
	if stats["completed_orders"] != float64(1) || stats["platform_revenue"] != float64(8000) || stats["average_rating"] != float64(4) {
		t.Fatalf("unexpected admin stats: %v", stats)
	}
	pstats := decode(t, send(t, e, http.MethodGet, "/v1/partner/stats", partnerToken, ""))
	if pstats["earnings"] != float64(32000) || pstats["today_orders"] != float64(1) {
		t.Fatalf("unexpected partner stats: %v", pstats)
	}

	// Audit trail.
	trail := decode(t, send(t, e, http.MethodGet, "/v1/admin/orders/"+id+"/events", adminToken, ""))
	events, _ := trail["events"].([]any)
	if len(events) != 5 {
		t.Fatalf("expected 5 events (created, assigned, paid, completed, reviewed), got %d", len(events))
	}
}
