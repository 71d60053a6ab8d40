package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobile-money-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CounterStore implements ports.CounterStore on a single-statement upsert.
// Row identity is the table's primary key (subject_id, window_kind, window_start),
// so concurrent increments serialize on the row lock.
type CounterStore struct {
	pool Pool
}

// NewCounterStore creates a new PostgreSQL-backed CounterStore.
func NewCounterStore(pool Pool) *CounterStore {
	return &CounterStore{pool: pool}
}

// Increment adds (1, amount) to the window containing at and returns the new totals.
func (s *CounterStore) Increment(ctx context.Context, subjectID uuid.UUID, kind domain.WindowKind, at time.Time, amount decimal.Decimal) (*domain.VelocityCounter, error) {
	start, reset := domain.WindowBounds(kind, at)

	query := `INSERT INTO velocity_counters (subject_id, window_kind, window_start, count, amount, reset_at, updated_at)
		VALUES ($1, $2, $3, 1, $4, $5, NOW())
		ON CONFLICT (subject_id, window_kind, window_start) DO UPDATE
		SET count = velocity_counters.count + 1,
			amount = velocity_counters.amount + EXCLUDED.amount,
			updated_at = NOW()
		RETURNING count, amount, reset_at`

	c := &domain.VelocityCounter{SubjectID: subjectID, Window: kind, WindowStart: start}
	err := s.pool.QueryRow(ctx, query, subjectID, kind, start, amount, reset).
		Scan(&c.Count, &c.AmountAccumulated, &c.ResetAt)
	if err != nil {
		return nil, fmt.Errorf("increment velocity counter: %w", err)
	}
	return c, nil
}

// Get reads the window containing at. A missing row is a zero counter.
func (s *CounterStore) Get(ctx context.Context, subjectID uuid.UUID, kind domain.WindowKind, at time.Time) (*domain.VelocityCounter, error) {
	start, reset := domain.WindowBounds(kind, at)

	query := `SELECT count, amount, reset_at FROM velocity_counters
		WHERE subject_id = $1 AND window_kind = $2 AND window_start = $3`

	c := &domain.VelocityCounter{SubjectID: subjectID, Window: kind, WindowStart: start}
	err := s.pool.QueryRow(ctx, query, subjectID, kind, start).Scan(&c.Count, &c.AmountAccumulated, &c.ResetAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.AmountAccumulated = decimal.Zero
			c.ResetAt = reset
			return c, nil
		}
		return nil, fmt.Errorf("get velocity counter: %w", err)
	}
	return c, nil
}
