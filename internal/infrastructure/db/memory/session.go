package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

var _ ports.SessionProvider = (*SessionProvider)(nil)

// SessionProvider keeps each session's identity as serialized text under a
// single key, the same shape the Redis provider uses.
type SessionProvider struct {
	prefix string
	values sync.Map
}

func NewSessionProvider(prefix string) *SessionProvider {
	return &SessionProvider{prefix: prefix}
}

func (p *SessionProvider) Session(id string) ports.SessionStore {
	return &sessionStore{provider: p, key: p.prefix + ":" + id}
}

type sessionStore struct {
	provider *SessionProvider
	key      string
}

func (s *sessionStore) Save(_ context.Context, identity *domain.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	s.provider.values.Store(s.key, string(raw))
	return nil
}

func (s *sessionStore) Load(_ context.Context) (*domain.Identity, error) {
	v, ok := s.provider.values.Load(s.key)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	var identity domain.Identity
	if err := json.Unmarshal([]byte(v.(string)), &identity); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return &identity, nil
}

func (s *sessionStore) Delete(_ context.Context) error {
	s.provider.values.Delete(s.key)
	return nil
}
