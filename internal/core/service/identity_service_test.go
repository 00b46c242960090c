package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
	"github.com/kostmate/booking-api/internal/infrastructure/db/memory"
)

type identityFixture struct {
	directory *memory.Directory
	sessions  *memory.SessionProvider
	registry  *IdentityRegistry
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()
	directory := memory.NewDirectory()
	if err := SeedDirectory(context.Background(), directory); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sessions := memory.NewSessionProvider("kostmate_user")
	return &identityFixture{
		directory: directory,
		sessions:  sessions,
		registry:  NewIdentityRegistry(NewDirectoryVerifier(directory), directory, sessions, zerolog.Nop()),
	}
}

func TestIdentityService_Authenticate_SeededAccounts(t *testing.T) {
	f := newIdentityFixture(t)
	cases := []struct {
		email, secret string
		id            string
		role          domain.Role
	}{
		{"user@kostmate.com", "password123", "1", domain.RoleUser},
		{"admin@kostmate.com", "admin123", "2", domain.RoleAdmin},
		{"partner@kostmate.com", "partner123", "3", domain.RolePartner},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			store := f.registry.ForSession(tc.email)
			identity, err := store.Authenticate(context.Background(), tc.email, tc.secret)
			if err != nil {
				t.Fatalf("authenticate: %v", err)
			}
			if identity.ID != tc.id || identity.Role != tc.role {
				t.Fatalf("unexpected identity: %+v", identity)
			}
			if cur := store.Current(); cur == nil || cur.ID != tc.id {
				t.Fatalf("expected current identity %s, got %+v", tc.id, cur)
			}
		})
	}
}

func TestIdentityService_Authenticate_RequiresExactMatch(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	inputs := [][2]string{
		{"user@kostmate.com", "wrong"},
		{"USER@kostmate.com", "password123"},
		{"user@kostmate.com ", "password123"},
		{"user@kostmate.com", "password123 "},
		{"ghost@kostmate.com", "password123"},
		{"", ""},
	}

	for _, in := range inputs {
		store := f.registry.ForSession("s")
		if _, err := store.Authenticate(ctx, in[0], in[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("%q/%q: expected ErrInvalidCredentials, got %v", in[0], in[1], err)
		}
		if cur := store.Current(); cur != nil {
			t.Fatalf("%q/%q: current identity must stay unset, got %+v", in[0], in[1], cur)
		}
	}
}

func TestIdentityService_FailedLoginKeepsCurrentIdentity(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	store := f.registry.ForSession("s")

	if _, err := store.Authenticate(ctx, "admin@kostmate.com", "admin123"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := store.Authenticate(ctx, "user@kostmate.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if cur := store.Current(); cur == nil || cur.ID != "2" {
		t.Fatalf("expected admin to stay current, got %+v", cur)
	}
}

func TestIdentityService_Register_DistinctIdsAndUserRole(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	seen := make(map[string]bool)

	for i := 0; i < 20; i++ {
		identity, err := f.registry.ForSession(fmt.Sprintf("s%d", i)).Register(ctx, ports.RegisterInput{
			Name:   fmt.Sprintf("Resident %d", i),
			Email:  fmt.Sprintf("r%d@example.com", i),
			Secret: "rahasia",
		})
		if err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		if identity.Role != domain.RoleUser {
			t.Fatalf("expected role user, got %s", identity.Role)
		}
		if seen[identity.ID] {
			t.Fatalf("duplicate id %s", identity.ID)
		}
		seen[identity.ID] = true
	}
}

func TestIdentityService_Register_ThenLogin(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	registered, err := f.registry.ForSession("a").Register(ctx, ports.RegisterInput{
		Name: "A", Email: "a@x.com", Phone: "0812", Address: "Kamar 1", Secret: "s",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	store := f.registry.ForSession("b")
	got, err := store.Authenticate(ctx, "a@x.com", "s")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != registered.ID || got.Role != domain.RoleUser || got.Address != "Kamar 1" {
		t.Fatalf("unexpected identity: %+v", got)
	}

	other := f.registry.ForSession("c")
	if _, err := other.Authenticate(ctx, "a@x.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if other.Current() != nil {
		t.Fatalf("current identity must remain unset")
	}
}

func TestIdentityService_Register_DuplicateEmail(t *testing.T) {
	f := newIdentityFixture(t)
	_, err := f.registry.ForSession("s").Register(context.Background(), ports.RegisterInput{
		Name: "Copy", Email: "user@kostmate.com", Secret: "x",
	})
	if !errors.Is(err, domain.ErrIdentityExists) {
		t.Fatalf("expected ErrIdentityExists, got %v", err)
	}
}

func TestIdentityService_Register_Validation(t *testing.T) {
	f := newIdentityFixture(t)
	inputs := []ports.RegisterInput{
		{Name: "", Email: "a@x.com", Secret: "s"},
		{Name: "A", Email: " ", Secret: "s"},
		{Name: "A", Email: "a@x.com", Secret: ""},
	}
	for _, in := range inputs {
		if _, err := f.registry.ForSession("s").Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidIdentity) {
			t.Fatalf("%+v: expected ErrInvalidIdentity, got %v", in, err)
		}
	}
}

func TestIdentityService_RestoreAndLogout(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	if _, err := f.registry.ForSession("sid").Authenticate(ctx, "user@kostmate.com", "password123"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	// A fresh store for the same session restores the persisted identity.
	restored, err := f.registry.ForSession("sid").Restore(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.ID != "1" {
		t.Fatalf("expected identity 1, got %s", restored.ID)
	}

	store := f.registry.ForSession("sid")
	if _, err := store.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if err := store.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.Current() != nil {
		t.Fatalf("current identity must be cleared")
	}
	if _, err := f.registry.ForSession("sid").Restore(ctx); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated after logout, got %v", err)
	}
}

func TestIdentityService_Restore_TrustsStoredIdentity(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	// Nothing in the directory backs this identity; restore accepts it anyway.
	forged := &domain.Identity{ID: "77", Name: "Forged", Role: domain.RoleAdmin}
	if err := f.sessions.Session("sid").Save(ctx, forged); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := f.registry.ForSession("sid").Restore(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got.ID != "77" || got.Role != domain.RoleAdmin {
		t.Fatalf("expected stored identity, got %+v", got)
	}
}

func TestIdentityService_SessionsAreIsolated(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	if _, err := f.registry.ForSession("one").Authenticate(ctx, "admin@kostmate.com", "admin123"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := f.registry.ForSession("two").Restore(ctx); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated for another session, got %v", err)
	}
}

func TestIdentityService_CurrentIsACopy(t *testing.T) {
	f := newIdentityFixture(t)
	store := NewIdentityService(NewDirectoryVerifier(f.directory), f.directory, f.sessions.Session("x"), zerolog.Nop())

	if _, err := store.Authenticate(context.Background(), "user@kostmate.com", "password123"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	store.Current().Role = domain.RoleAdmin
	if store.Current().Role != domain.RoleUser {
		t.Fatalf("mutating the returned identity must not change the store")
	}
}

func TestSeedDirectory_Idempotent(t *testing.T) {
	f := newIdentityFixture(t)
	if err := SeedDirectory(context.Background(), f.directory); err != nil {
		t.Fatalf("second seed: %v", err)
	}
}
