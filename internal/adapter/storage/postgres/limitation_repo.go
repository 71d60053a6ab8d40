package postgres

import (
	"context"
	"errors"
	"fmt"

	"mobile-money-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LimitationRepo implements ports.LimitationStore.
type LimitationRepo struct {
	pool Pool
}

// NewLimitationRepo creates a new LimitationRepo.
func NewLimitationRepo(pool Pool) *LimitationRepo {
	return &LimitationRepo{pool: pool}
}

// GetBySubject returns the subject's limitation, or nil if none is recorded.
func (r *LimitationRepo) GetBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AccountLimitation, error) {
	query := `SELECT subject_id, status, reason, expires_at, reserve_release_at
		FROM account_limitations WHERE subject_id = $1`

	l := &domain.AccountLimitation{}
	err := r.pool.QueryRow(ctx, query, subjectID).Scan(
		&l.SubjectID, &l.Status, &l.Reason, &l.ExpiresAt, &l.ReserveReleaseAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account limitation: %w", err)
	}
	return l, nil
}
