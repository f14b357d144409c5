package session

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/cache"
	"github.com/redis/go-redis/v9"
)

type Store interface {
	// Persist records id if it is not known yet. Known ids are left untouched.
	Persist(ctx context.Context, id string) error
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

// Sessions have no server-side expiry, so the key is written without a TTL.
func (s *redisStore) Persist(ctx context.Context, id string) error {
	key := cache.Key(cache.SessionKeyPrefix, id)

	if err := s.client.SetNX(ctx, key, time.Now().UTC().Unix(), 0).Err(); err != nil {
		return fmt.Errorf("failed to persist session %s: %w", id, err)
	}

	return nil
}
