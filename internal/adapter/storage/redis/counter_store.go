package redis

import (
	"context"
	"fmt"
	"time"

	"mobile-money-gateway/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Amounts are stored as integer units of 10^-amountScale so HINCRBY stays exact.
const amountScale = 4

// counterGrace keeps a window readable for a while after it rolls over.
const counterGrace = time.Hour

// incrementScript bumps both fields of the window hash and refreshes its TTL
// in one round trip. KEYS[1] window key, ARGV[1] amount units, ARGV[2] ttl ms.
var incrementScript = goredis.NewScript(`
local count = redis.call('HINCRBY', KEYS[1], 'count', 1)
local units = redis.call('HINCRBY', KEYS[1], 'amount_units', ARGV[1])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return {count, units}
`)

type counterHash struct {
	Count       int64 `redis:"count"`
	AmountUnits int64 `redis:"amount_units"`
}

// CounterStore implements ports.CounterStore on Redis hashes, one per window.
type CounterStore struct {
	client *goredis.Client
	prefix string
	now    func() time.Time
}

// NewCounterStore creates a new Redis-backed velocity counter store.
func NewCounterStore(client *goredis.Client) *CounterStore {
	return &CounterStore{
		client: client,
		prefix: "velocity:",
		now:    time.Now,
	}
}

func (s *CounterStore) key(subjectID uuid.UUID, kind domain.WindowKind, start time.Time) string {
	return fmt.Sprintf("%s%s:%s:%d", s.prefix, subjectID, kind, start.Unix())
}

// Increment adds (1, amount) to the window containing at and returns the new totals.
func (s *CounterStore) Increment(ctx context.Context, subjectID uuid.UUID, kind domain.WindowKind, at time.Time, amount decimal.Decimal) (*domain.VelocityCounter, error) {
	start, reset := domain.WindowBounds(kind, at)
	units := amount.Round(amountScale).Shift(amountScale).IntPart()

	ttl := reset.Sub(s.now())
	if ttl < 0 {
		ttl = 0
	}
	ttl += counterGrace

	res, err := incrementScript.Run(ctx, s.client, []string{s.key(subjectID, kind, start)}, units, ttl.Milliseconds()).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis velocity increment: %w", err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("redis velocity increment: unexpected reply length %d", len(res))
	}

	return &domain.VelocityCounter{
		SubjectID:         subjectID,
		Window:            kind,
		WindowStart:       start,
		Count:             res[0],
		AmountAccumulated: decimal.New(res[1], -amountScale),
		ResetAt:           reset,
	}, nil
}

// Get reads the window containing at. A missing key is a zero counter.
func (s *CounterStore) Get(ctx context.Context, subjectID uuid.UUID, kind domain.WindowKind, at time.Time) (*domain.VelocityCounter, error) {
	start, reset := domain.WindowBounds(kind, at)
	c := &domain.VelocityCounter{
		SubjectID:         subjectID,
		Window:            kind,
		WindowStart:       start,
		AmountAccumulated: decimal.Zero,
		ResetAt:           reset,
	}

	var h counterHash
	if err := s.client.HMGet(ctx, s.key(subjectID, kind, start), "count", "amount_units").Scan(&h); err != nil {
		return nil, fmt.Errorf("redis velocity get: %w", err)
	}
	c.Count = h.Count
	c.AmountAccumulated = decimal.New(h.AmountUnits, -amountScale)
	return c, nil
}
