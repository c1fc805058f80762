package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long a crashed request can hold a key.
	pendingTTL    = 30 * time.Second
	pendingMarker = "pending"
)

// kv is the subset of redis.Cmdable the store needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// IdempotencyStore maps Idempotency-Key headers to the recipe they created.
// Key format: idempotency:recipe:<key>. While the first request is still
// creating, the value is the pending marker.
type IdempotencyStore struct {
	client kv
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client kv) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Reserve claims key for the caller with SETNX. When the key is already held,
// reserved is false and recipeID is the remembered recipe, or "" while the
// holder is still pending.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (reserved bool, recipeID string, err error) {
	k := s.key(key)
	// Two rounds: the holder may release or expire between SETNX and GET.
	for i := 0; i < 2; i++ {
		ok, err := s.client.SetNX(ctx, k, pendingMarker, pendingTTL).Result()
		if err != nil {
			return false, "", fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return true, "", nil
		}

		id, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return false, "", fmt.Errorf("idempotency reserve: %w", err)
		}
		if id == pendingMarker {
			return false, "", nil
		}
		return false, id, nil
	}
	return false, "", nil
}

// Remember records recipeID for key (expires after 24h), replacing a pending
// marker or a stale id.
func (s *IdempotencyStore) Remember(ctx context.Context, key, recipeID string) error {
	if err := s.client.Set(ctx, s.key(key), recipeID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

// Release drops a reservation whose create failed so the client can retry.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(k string) string {
	return "idempotency:recipe:" + k
}
