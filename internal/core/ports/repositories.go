package ports

import (
	"context"
	"errors"
	"time"

	"mobile-money-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDuplicateProviderRef is returned when a provider reference collides with an existing intent.
var ErrDuplicateProviderRef = errors.New("provider reference already exists")

// IntentRepository defines persistence operations for payment intents.
// Status and finalization changes are compare-and-swap at the storage level;
// the boolean result reports whether this caller won.
type IntentRepository interface {
	Create(ctx context.Context, intent *domain.PaymentIntent) error
	AssignProviderRef(ctx context.Context, id uuid.UUID, ref string) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error)
	GetByProviderRef(ctx context.Context, ref string) (*domain.PaymentIntent, error)
	GetByIDForSubject(ctx context.Context, id, subjectID uuid.UUID) (*domain.PaymentIntent, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from []domain.IntentStatus, to domain.IntentStatus, errMsg *string) (bool, error)
	MergeMetadata(ctx context.Context, id uuid.UUID, kv map[string]any) error

	// Finalization claim protocol
	ClaimFinalization(ctx context.Context, id, token uuid.UUID, staleAfter time.Duration) (bool, error)
	MarkFinalized(ctx context.Context, id, token uuid.UUID, at time.Time) (bool, error)
	ReleaseFinalization(ctx context.Context, id, token uuid.UUID) error
	ListUnfinalized(ctx context.Context, olderThan time.Time, limit int) ([]domain.PaymentIntent, error)

	// SumAmountSince totals the subject's live (non-failed) intent amounts created at or after since.
	SumAmountSince(ctx context.Context, subjectID uuid.UUID, since time.Time) (decimal.Decimal, error)
}

// CounterStore provides linearizable increment-and-fetch on velocity counters.
type CounterStore interface {
	Increment(ctx context.Context, subjectID uuid.UUID, kind domain.WindowKind, at time.Time, amount decimal.Decimal) (*domain.VelocityCounter, error)
	Get(ctx context.Context, subjectID uuid.UUID, kind domain.WindowKind, at time.Time) (*domain.VelocityCounter, error)
}

// RiskEventRepository appends risk events. Gates never read it.
type RiskEventRepository interface {
	Create(ctx context.Context, event *domain.RiskEvent) error
}

// PolicyStore serves slowly-changing risk reference data.
// A nil result with a nil error means "not configured".
type PolicyStore interface {
	GetTier(ctx context.Context, subjectID uuid.UUID) (string, error)
	GetTierLimits(ctx context.Context, tier string) (*domain.TierLimits, error)
	GetGeoPolicy(ctx context.Context) (*domain.GeoPolicy, error)
	GetIPDenylist(ctx context.Context) ([]string, error)
	GetDeviceRules(ctx context.Context) (*domain.DeviceRules, error)
}

// LimitationStore reads account limitation state.
type LimitationStore interface {
	GetBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AccountLimitation, error)
}

// AccountRepository resolves allocation targets.
type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}
