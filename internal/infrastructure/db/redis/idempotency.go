package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kostmate/booking-api/internal/core/ports"
)

const idempotencyTTL = 24 * time.Hour

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore binds Idempotency-Key headers to order ids.
// Key format: idempotency:order:<key>
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Claim binds key to orderID with SETNX. When the key is taken the bound order
// id is returned with claimed=false.
func (s *IdempotencyStore) Claim(ctx context.Context, key, orderID string) (string, bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), orderID, idempotencyTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return orderID, true, nil
	}

	existing, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET; treat as a fresh claim.
			return s.Claim(ctx, key, orderID)
		}
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return existing, false, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *IdempotencyStore) key(k string) string {
	return "idempotency:order:" + k
}
