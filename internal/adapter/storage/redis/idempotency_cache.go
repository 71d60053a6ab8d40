package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyCache implements ports.IdempotencyCache using Redis.
// Entries are scoped per subject, so two callers may reuse a header value.
type IdempotencyCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewIdempotencyCache creates a Redis-backed initiate replay cache.
// A non-positive ttl falls back to 24h.
func NewIdempotencyCache(client *goredis.Client, ttl time.Duration) *IdempotencyCache {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyCache{client: client, ttl: ttl}
}

func idempotencyKey(subjectID uuid.UUID, key string) string {
	return "idempotency:initiate:" + subjectID.String() + ":" + key
}

// Lookup returns the intent remembered for the key, or uuid.Nil.
func (c *IdempotencyCache) Lookup(ctx context.Context, subjectID uuid.UUID, key string) (uuid.UUID, error) {
	val, err := c.client.Get(ctx, idempotencyKey(subjectID, key)).Result()
	if errors.Is(err, goredis.Nil) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("redis idempotency lookup: %w", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("redis idempotency entry %q: %w", val, err)
	}
	return id, nil
}

// Remember records the intent created for the key. The first intent wins.
func (c *IdempotencyCache) Remember(ctx context.Context, subjectID uuid.UUID, key string, intentID uuid.UUID) error {
	if err := c.client.SetNX(ctx, idempotencyKey(subjectID, key), intentID.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis idempotency remember: %w", err)
	}
	return nil
}
