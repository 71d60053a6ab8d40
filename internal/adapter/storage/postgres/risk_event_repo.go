package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"mobile-money-gateway/internal/core/domain"
)

// RiskEventRepo implements ports.RiskEventRepository. The table is append-only.
type RiskEventRepo struct {
	pool Pool
}

// NewRiskEventRepo creates a new RiskEventRepo.
func NewRiskEventRepo(pool Pool) *RiskEventRepo {
	return &RiskEventRepo{pool: pool}
}

// Create appends a risk event.
func (r *RiskEventRepo) Create(ctx context.Context, e *domain.RiskEvent) error {
	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("encode risk event metadata: %w", err)
	}

	query := `INSERT INTO risk_events (id, subject_id, kind, score, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.pool.Exec(ctx, query, e.ID, e.SubjectID, e.Kind, e.Score, meta, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert risk event: %w", err)
	}
	return nil
}
