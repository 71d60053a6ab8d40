package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const providerRefConstraint = "payment_intents_provider_ref_key"

const intentColumns = `id, subject_id, provider_ref, kind, amount, currency, target_account, provider,
		phone_encrypted, status, provider_metadata, error, finalized_at, created_at, updated_at`

// IntentRepo implements ports.IntentRepository.
type IntentRepo struct {
	pool Pool
}

// NewIntentRepo creates a new IntentRepo.
func NewIntentRepo(pool Pool) *IntentRepo {
	return &IntentRepo{pool: pool}
}

// Create inserts a new payment intent. A provider_ref collision is reported
// as ports.ErrDuplicateProviderRef and never merged into the existing row.
func (r *IntentRepo) Create(ctx context.Context, i *domain.PaymentIntent) error {
	meta, err := marshalMetadata(i.ProviderMetadata)
	if err != nil {
		return err
	}

	query := `INSERT INTO payment_intents (id, subject_id, provider_ref, kind, amount, currency, target_account,
		provider, phone_encrypted, status, provider_metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.pool.Exec(ctx, query,
		i.ID, i.SubjectID, i.ProviderRef, i.Kind, i.Amount, i.Currency, i.TargetAccount,
		i.Provider, i.PhoneEncrypted, i.Status, meta, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, providerRefConstraint) {
			return fmt.Errorf("insert payment intent %s: %w", i.ID, ports.ErrDuplicateProviderRef)
		}
		return fmt.Errorf("insert payment intent: %w", err)
	}
	return nil
}

// AssignProviderRef sets the provider reference and moves created -> awaiting_user.
// Repeating the call with the same reference is a no-op.
func (r *IntentRepo) AssignProviderRef(ctx context.Context, id uuid.UUID, ref string) error {
	query := `UPDATE payment_intents SET provider_ref = $2, status = $3, updated_at = NOW()
		WHERE id = $1 AND provider_ref IS NULL AND status = $4`

	tag, err := r.pool.Exec(ctx, query, id, ref, domain.IntentStatusAwaitingUser, domain.IntentStatusCreated)
	if err != nil {
		if isUniqueViolation(err, providerRefConstraint) {
			return fmt.Errorf("assign provider ref %s: %w", ref, ports.ErrDuplicateProviderRef)
		}
		return fmt.Errorf("assign provider ref: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case current == nil:
		return fmt.Errorf("payment intent not found: %s", id)
	case current.Ref() == ref:
		return nil
	case current.ProviderRef != nil:
		return domain.ErrRefAlreadyAssigned
	default:
		return domain.ErrInvalidTransition
	}
}

// GetByID fetches an intent by its UUID.
func (r *IntentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error) {
	query := `SELECT ` + intentColumns + ` FROM payment_intents WHERE id = $1`
	return r.scanIntent(r.pool.QueryRow(ctx, query, id))
}

// GetByProviderRef fetches an intent by its provider reference.
func (r *IntentRepo) GetByProviderRef(ctx context.Context, ref string) (*domain.PaymentIntent, error) {
	query := `SELECT ` + intentColumns + ` FROM payment_intents WHERE provider_ref = $1`
	return r.scanIntent(r.pool.QueryRow(ctx, query, ref))
}

// GetByIDForSubject fetches an intent only if it belongs to subjectID.
func (r *IntentRepo) GetByIDForSubject(ctx context.Context, id, subjectID uuid.UUID) (*domain.PaymentIntent, error) {
	query := `SELECT ` + intentColumns + ` FROM payment_intents WHERE id = $1 AND subject_id = $2`
	return r.scanIntent(r.pool.QueryRow(ctx, query, id, subjectID))
}

// TransitionStatus moves the intent to `to` only if its current status is one of from.
// Returns true if this call performed the transition.
func (r *IntentRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from []domain.IntentStatus, to domain.IntentStatus, errMsg *string) (bool, error) {
	sources := make([]string, len(from))
	for k, s := range from {
		sources[k] = string(s)
	}

	query := `UPDATE payment_intents SET status = $2, error = COALESCE($3, error), updated_at = NOW()
		WHERE id = $1 AND status = ANY($4)`

	tag, err := r.pool.Exec(ctx, query, id, to, errMsg, sources)
	if err != nil {
		return false, fmt.Errorf("transition intent status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MergeMetadata adds keys to provider_metadata. Keys already present are kept.
func (r *IntentRepo) MergeMetadata(ctx context.Context, id uuid.UUID, kv map[string]any) error {
	if len(kv) == 0 {
		return nil
	}
	meta, err := marshalMetadata(kv)
	if err != nil {
		return err
	}

	// jsonb || keeps the right-hand value on conflict, so existing keys go on the right.
	query := `UPDATE payment_intents SET provider_metadata = $2::jsonb || provider_metadata, updated_at = NOW()
		WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, meta); err != nil {
		return fmt.Errorf("merge intent metadata: %w", err)
	}
	return nil
}

// ClaimFinalization takes the finalization claim for a success intent without a marker.
// A claim older than staleAfter is considered abandoned and may be taken over.
func (r *IntentRepo) ClaimFinalization(ctx context.Context, id, token uuid.UUID, staleAfter time.Duration) (bool, error) {
	query := `UPDATE payment_intents SET finalization_token = $2, finalization_claimed_at = NOW()
		WHERE id = $1 AND status = $3 AND finalized_at IS NULL
		AND (finalization_token IS NULL OR finalization_claimed_at < NOW() - make_interval(secs => $4))`

	tag, err := r.pool.Exec(ctx, query, id, token, domain.IntentStatusSuccess, staleAfter.Seconds())
	if err != nil {
		return false, fmt.Errorf("claim finalization: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFinalized writes finalized_at and the processedAt metadata key for the claim holder.
func (r *IntentRepo) MarkFinalized(ctx context.Context, id, token uuid.UUID, at time.Time) (bool, error) {
	query := `UPDATE payment_intents
		SET finalized_at = $3, finalization_token = NULL,
			provider_metadata = jsonb_build_object($4::text, $5::text) || provider_metadata,
			updated_at = NOW()
		WHERE id = $1 AND finalization_token = $2 AND finalized_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, id, token, at, domain.MetaProcessedAt, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, fmt.Errorf("mark finalized: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseFinalization drops a claim so the next observer can retry.
func (r *IntentRepo) ReleaseFinalization(ctx context.Context, id, token uuid.UUID) error {
	query := `UPDATE payment_intents SET finalization_token = NULL, finalization_claimed_at = NULL
		WHERE id = $1 AND finalization_token = $2 AND finalized_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, id, token); err != nil {
		return fmt.Errorf("release finalization: %w", err)
	}
	return nil
}

// ListUnfinalized returns success intents still lacking the finalization marker.
func (r *IntentRepo) ListUnfinalized(ctx context.Context, olderThan time.Time, limit int) ([]domain.PaymentIntent, error) {
	query := `SELECT ` + intentColumns + ` FROM payment_intents
		WHERE status = $1 AND finalized_at IS NULL AND updated_at < $2
		ORDER BY updated_at LIMIT $3`

	rows, err := r.pool.Query(ctx, query, domain.IntentStatusSuccess, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("list unfinalized intents: %w", err)
	}
	defer rows.Close()

	var intents []domain.PaymentIntent
	for rows.Next() {
		i, err := scanIntentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unfinalized intent: %w", err)
		}
		intents = append(intents, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unfinalized intents: %w", err)
	}
	return intents, nil
}

// SumAmountSince totals the subject's intent amounts created at or after since,
// ignoring intents that ended in failure.
func (r *IntentRepo) SumAmountSince(ctx context.Context, subjectID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payment_intents
		WHERE subject_id = $1 AND created_at >= $2 AND status <> ALL($3)`

	excluded := []string{
		string(domain.IntentStatusFailed),
		string(domain.IntentStatusCanceled),
		string(domain.IntentStatusExpired),
	}

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, subjectID, since, excluded).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum intent amounts: %w", err)
	}
	return total, nil
}

func (r *IntentRepo) scanIntent(row pgx.Row) (*domain.PaymentIntent, error) {
	i, err := scanIntentRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment intent: %w", err)
	}
	return i, nil
}

func scanIntentRow(row pgx.Row) (*domain.PaymentIntent, error) {
	i := &domain.PaymentIntent{}
	var meta []byte
	err := row.Scan(
		&i.ID, &i.SubjectID, &i.ProviderRef, &i.Kind, &i.Amount, &i.Currency, &i.TargetAccount, &i.Provider,
		&i.PhoneEncrypted, &i.Status, &meta, &i.Error, &i.FinalizedAt, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	i.ProviderMetadata = map[string]any{}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &i.ProviderMetadata); err != nil {
			return nil, fmt.Errorf("decode provider metadata: %w", err)
		}
	}
	return i, nil
}

func marshalMetadata(kv map[string]any) ([]byte, error) {
	if kv == nil {
		kv = map[string]any{}
	}
	b, err := json.Marshal(kv)
	if err != nil {
		return nil, fmt.Errorf("encode provider metadata: %w", err)
	}
	return b, nil
}
