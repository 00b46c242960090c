package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

// IdentityService is the identity store of a single session. It holds at most
// one current identity and mirrors it to the session store.
type IdentityService struct {
	verifier  ports.CredentialVerifier
	directory ports.Directory
	session   ports.SessionStore
	ids       *idGenerator
	log       zerolog.Logger

	mu      sync.RWMutex
	current *domain.Identity
}

func NewIdentityService(
	verifier ports.CredentialVerifier,
	directory ports.Directory,
	session ports.SessionStore,
	log zerolog.Logger,
) *IdentityService {
	return newIdentityService(verifier, directory, session, newIDGenerator(nil), log)
}

func newIdentityService(
	verifier ports.CredentialVerifier,
	directory ports.Directory,
	session ports.SessionStore,
	ids *idGenerator,
	log zerolog.Logger,
) *IdentityService {
	return &IdentityService{
		verifier:  verifier,
		directory: directory,
		session:   session,
		ids:       ids,
		log:       log,
	}
}

// Authenticate verifies the credentials and, on success, makes the identity
// current and persists it. On failure the current identity is unchanged.
func (s *IdentityService) Authenticate(ctx context.Context, email, secret string) (*domain.Identity, error) {
	identity, err := s.verifier.Verify(ctx, email, secret)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.log.Info().Str("email", email).Msg("authentication rejected")
		}
		return nil, err
	}

	if err := s.setCurrent(ctx, identity); err != nil {
		return nil, err
	}

	s.log.Info().Str("identity_id", identity.ID).Str("role", string(identity.Role)).Msg("authenticated")
	return cloneIdentity(identity), nil
}

// Register appends a new end-user to the directory and makes it current.
func (s *IdentityService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Secret == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidIdentity
	}

	hash, err := hashSecret(in.Secret)
	if err != nil {
		return nil, err
	}

	identity := domain.Identity{
		ID:      s.ids.Next(),
		Name:    in.Name,
		Email:   email,
		Phone:   in.Phone,
		Address: in.Address,
		Role:    domain.RoleUser,
	}

	if err := s.directory.Create(ctx, &domain.DirectoryEntry{
		Identity:   identity,
		SecretHash: hash,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	if err := s.setCurrent(ctx, &identity); err != nil {
		return nil, err
	}

	s.log.Info().Str("identity_id", identity.ID).Msg("identity registered")
	return cloneIdentity(&identity), nil
}

// Logout clears the current identity and removes the persisted copy.
func (s *IdentityService) Logout(ctx context.Context) error {
	if err := s.session.Delete(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}

// Restore makes the persisted identity current. The stored identity is
// trusted as-is and not re-validated against the directory.
func (s *IdentityService) Restore(ctx context.Context) (*domain.Identity, error) {
	identity, err := s.session.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = cloneIdentity(identity)
	s.mu.Unlock()
	return cloneIdentity(identity), nil
}

// Current returns the current identity or nil.
func (s *IdentityService) Current() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneIdentity(s.current)
}

func (s *IdentityService) setCurrent(ctx context.Context, identity *domain.Identity) error {
	if err := s.session.Save(ctx, identity); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	s.mu.Lock()
	s.current = cloneIdentity(identity)
	s.mu.Unlock()
	return nil
}

func cloneIdentity(i *domain.Identity) *domain.Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// IdentityRegistry builds session-scoped identity stores that share one
// directory, verifier and id sequence.
type IdentityRegistry struct {
	verifier  ports.CredentialVerifier
	directory ports.Directory
	sessions  ports.SessionProvider
	ids       *idGenerator
	log       zerolog.Logger
}

func NewIdentityRegistry(
	verifier ports.CredentialVerifier,
	directory ports.Directory,
	sessions ports.SessionProvider,
	log zerolog.Logger,
) *IdentityRegistry {
	return &IdentityRegistry{
		verifier:  verifier,
		directory: directory,
		sessions:  sessions,
		ids:       newIDGenerator(nil),
		log:       log,
	}
}

func (r *IdentityRegistry) ForSession(sessionID string) ports.IdentityStore {
	return newIdentityService(
		r.verifier,
		r.directory,
		r.sessions.Session(sessionID),
		r.ids,
		r.log.With().Str("session_id", sessionID).Logger(),
	)
}
