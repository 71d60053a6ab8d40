package postgres

import (
	"context"
	"errors"
	"fmt"

	"mobile-money-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PolicyRepo implements ports.PolicyStore over the risk reference tables.
// Missing rows mean "not configured" and are returned as nil without error.
type PolicyRepo struct {
	pool Pool
}

// NewPolicyRepo creates a new PolicyRepo.
func NewPolicyRepo(pool Pool) *PolicyRepo {
	return &PolicyRepo{pool: pool}
}

// GetTier returns the subject's KYC tier, or "" if no profile exists.
func (r *PolicyRepo) GetTier(ctx context.Context, subjectID uuid.UUID) (string, error) {
	var tier string
	err := r.pool.QueryRow(ctx, `SELECT kyc_tier FROM subject_profiles WHERE subject_id = $1`, subjectID).Scan(&tier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get kyc tier: %w", err)
	}
	return tier, nil
}

// GetTierLimits returns the caps for a tier.
func (r *PolicyRepo) GetTierLimits(ctx context.Context, tier string) (*domain.TierLimits, error) {
	query := `SELECT tier, daily_limit, monthly_limit FROM tier_limits WHERE tier = $1`

	l := &domain.TierLimits{}
	err := r.pool.QueryRow(ctx, query, tier).Scan(&l.Tier, &l.DailyLimit, &l.MonthlyLimit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tier limits: %w", err)
	}
	return l, nil
}

// GetGeoPolicy returns the country allowlist, or nil if it is empty.
func (r *PolicyRepo) GetGeoPolicy(ctx context.Context) (*domain.GeoPolicy, error) {
	countries, err := r.listStrings(ctx, `SELECT country_code FROM geo_allowlist ORDER BY country_code`)
	if err != nil {
		return nil, fmt.Errorf("get geo allowlist: %w", err)
	}
	if len(countries) == 0 {
		return nil, nil
	}
	return &domain.GeoPolicy{AllowedCountries: countries}, nil
}

// GetIPDenylist returns the raw denylist entries (bare IPs or CIDR prefixes).
func (r *PolicyRepo) GetIPDenylist(ctx context.Context) ([]string, error) {
	entries, err := r.listStrings(ctx, `SELECT cidr FROM ip_denylist`)
	if err != nil {
		return nil, fmt.Errorf("get ip denylist: %w", err)
	}
	return entries, nil
}

// GetDeviceRules returns the device rule flags.
func (r *PolicyRepo) GetDeviceRules(ctx context.Context) (*domain.DeviceRules, error) {
	d := &domain.DeviceRules{}
	err := r.pool.QueryRow(ctx, `SELECT block_headless, require_cookies FROM device_rules WHERE id = 1`).
		Scan(&d.BlockHeadless, &d.RequireCookies)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get device rules: %w", err)
	}
	return d, nil
}

func (r *PolicyRepo) listStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
