package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// CallbackDedup implements ports.CallbackDedupStore using Redis SET NX.
type CallbackDedup struct {
	client *goredis.Client
	prefix string
}

// NewCallbackDedup creates a new Redis-backed callback dedup store.
func NewCallbackDedup(client *goredis.Client) *CallbackDedup {
	return &CallbackDedup{
		client: client,
		prefix: "callback:",
	}
}

// FirstSeen records the payload digest for provider and reports whether it was new.
// A digest already present means the callback is an exact redelivery.
func (s *CallbackDedup) FirstSeen(ctx context.Context, provider string, digest string, ttl time.Duration) (bool, error) {
	key := s.prefix + provider + ":" + digest
	result, err := s.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis callback dedup: %w", err)
	}
	return result == "OK", nil
}

// Forget deletes the digest so the next delivery is processed.
func (s *CallbackDedup) Forget(ctx context.Context, provider string, digest string) error {
	if err := s.client.Del(ctx, s.prefix+provider+":"+digest).Err(); err != nil {
		return fmt.Errorf("redis callback forget: %w", err)
	}
	return nil
}
