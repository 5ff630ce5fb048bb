package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed denylist.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "revoked:",
	}
}

func (r *RedisStore) key(credentialID string) string {
	return r.prefix + credentialID
}

func (r *RedisStore) Revoke(ctx context.Context, credentialID string, expiresAt time.Time) error {
	if credentialID == "" {
		return ErrMissingID
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// already expired, nothing left to deny
		return nil
	}

	if err := r.client.Set(ctx, r.key(credentialID), expiresAt.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("session: revoke: %w", err)
	}
	return nil
}

func (r *RedisStore) IsRevoked(ctx context.Context, credentialID string) (bool, error) {
	if credentialID == "" {
		return false, ErrMissingID
	}

	err := r.client.Get(ctx, r.key(credentialID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session: lookup: %w", err)
	}

	return true, nil
}
