package ports

import (
	"context"

	"github.com/kostmate/booking-api/internal/core/domain"
)

// CredentialVerifier checks an email/secret pair and returns the matching
// identity with the secret stripped.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, secret string) (*domain.Identity, error)
}

// RegisterInput carries the profile of a new end-user.
type RegisterInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Secret  string
}

// IdentityStore holds at most one current identity for a session.
type IdentityStore interface {
	Authenticate(ctx context.Context, email, secret string) (*domain.Identity, error)
	Register(ctx context.Context, input RegisterInput) (*domain.Identity, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*domain.Identity, error)
	Current() *domain.Identity
}

// IdentityStores scopes an IdentityStore to a session.
type IdentityStores interface {
	ForSession(sessionID string) IdentityStore
}

// TokenIssuer signs the bearer token handed to a client after login.
type TokenIssuer interface {
	Issue(sessionID string, identity *domain.Identity) (string, error)
}
