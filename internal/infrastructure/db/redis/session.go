package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

var _ ports.SessionProvider = (*SessionProvider)(nil)

// SessionProvider persists each session's identity as a JSON string.
// Key format: <prefix>:<session_id>
type SessionProvider struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionProvider creates a SessionProvider. A ttl of zero keeps keys until
// logout.
func NewSessionProvider(client *redis.Client, prefix string, ttl time.Duration) *SessionProvider {
	return &SessionProvider{client: client, prefix: prefix, ttl: ttl}
}

func (p *SessionProvider) Session(id string) ports.SessionStore {
	return &sessionStore{client: p.client, key: p.prefix + ":" + id, ttl: p.ttl}
}

type sessionStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (s *sessionStore) Save(ctx context.Context, identity *domain.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return s.client.Set(ctx, s.key, raw, s.ttl).Err()
}

func (s *sessionStore) Load(ctx context.Context) (*domain.Identity, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return &identity, nil
}

func (s *sessionStore) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
