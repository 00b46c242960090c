package ports

import (
	"context"

	"github.com/kostmate/booking-api/internal/core/domain"
)

// Directory is the credential directory identities authenticate against.
type Directory interface {
	// FindByEmail returns domain.ErrIdentityNotFound when no entry matches exactly.
	FindByEmail(ctx context.Context, email string) (*domain.DirectoryEntry, error)
	// Create appends an entry. It returns domain.ErrIdentityExists on a duplicate email.
	Create(ctx context.Context, entry *domain.DirectoryEntry) error
}

// SessionStore persists the current identity of one session under a single key.
type SessionStore interface {
	Save(ctx context.Context, identity *domain.Identity) error
	// Load returns domain.ErrNotAuthenticated when nothing is persisted.
	Load(ctx context.Context) (*domain.Identity, error)
	Delete(ctx context.Context) error
}

// SessionProvider hands out the SessionStore bound to a session id.
type SessionProvider interface {
	Session(id string) SessionStore
}
