package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempotencyCache(t *testing.T, ttl time.Duration) (*IdempotencyCache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	return NewIdempotencyCache(client, ttl), s
}

func TestIdempotencyCache_RememberAndLookup(t *testing.T) {
	cache, s := newIdempotencyCache(t, time.Hour)
	ctx := context.Background()
	subject, intentID := uuid.New(), uuid.New()

	got, err := cache.Lookup(ctx, subject, "order-1")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got)

	require.NoError(t, cache.Remember(ctx, subject, "order-1", intentID))

	got, err = cache.Lookup(ctx, subject, "order-1")
	require.NoError(t, err)
	assert.Equal(t, intentID, got)

	stored, err := s.Get("idempotency:initiate:" + subject.String() + ":order-1")
	require.NoError(t, err)
	assert.Equal(t, intentID.String(), stored)
}

func TestIdempotencyCache_ScopedBySubject(t *testing.T) {
	cache, _ := newIdempotencyCache(t, time.Hour)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, cache.Remember(ctx, alice, "order-1", uuid.New()))

	got, err := cache.Lookup(ctx, bob, "order-1")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got)
}

func TestIdempotencyCache_FirstIntentWins(t *testing.T) {
	cache, _ := newIdempotencyCache(t, time.Hour)
	ctx := context.Background()
	subject, first := uuid.New(), uuid.New()

	require.NoError(t, cache.Remember(ctx, subject, "order-1", first))
	require.NoError(t, cache.Remember(ctx, subject, "order-1", uuid.New()))

	got, err := cache.Lookup(ctx, subject, "order-1")
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestIdempotencyCache_TTL(t *testing.T) {
	cache, s := newIdempotencyCache(t, 0)
	ctx := context.Background()
	subject := uuid.New()

	require.NoError(t, cache.Remember(ctx, subject, "order-1", uuid.New()))
	assert.Equal(t, 24*time.Hour, s.TTL("idempotency:initiate:"+subject.String()+":order-1"))

	s.FastForward(25 * time.Hour)
	got, err := cache.Lookup(ctx, subject, "order-1")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got, "expired entry is forgotten")
}

func TestIdempotencyCache_UnreadableEntry(t *testing.T) {
	cache, s := newIdempotencyCache(t, time.Hour)
	subject := uuid.New()
	require.NoError(t, s.Set("idempotency:initiate:"+subject.String()+":order-1", "not-a-uuid"))

	_, err := cache.Lookup(context.Background(), subject, "order-1")
	assert.Error(t, err)
}

func TestIdempotencyCache_RedisDown(t *testing.T) {
	cache, s := newIdempotencyCache(t, time.Hour)
	s.Close()

	_, err := cache.Lookup(context.Background(), uuid.New(), "order-1")
	assert.Error(t, err)
	assert.Error(t, cache.Remember(context.Background(), uuid.New(), "order-1", uuid.New()))
}
