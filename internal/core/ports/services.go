package ports

import (
	"context"
	"time"

	"mobile-money-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(subjectID uuid.UUID, role string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	SubjectID uuid.UUID
	Role      string
}

// IdempotencyCache maps a subject's Idempotency-Key to the intent it created.
type IdempotencyCache interface {
	// Lookup returns uuid.Nil when no intent is remembered for key.
	Lookup(ctx context.Context, subjectID uuid.UUID, key string) (uuid.UUID, error)
	Remember(ctx context.Context, subjectID uuid.UUID, key string, intentID uuid.UUID) error
}

// CallbackDedupStore drops exact redeliveries of a provider callback.
type CallbackDedupStore interface {
	// FirstSeen atomically records the digest and reports whether it was new.
	FirstSeen(ctx context.Context, provider string, digest string, ttl time.Duration) (bool, error)
	// Forget removes the digest so a redelivery is processed again.
	Forget(ctx context.Context, provider string, digest string) error
}

// CallbackParser decodes a provider callback into its canonical outcome.
type CallbackParser interface {
	Parse(provider domain.Provider, payload []byte, ref string) (*domain.CallbackOutcome, error)
}

// Allocator is the external ledger capability invoked once per successful deposit.
type Allocator interface {
	Allocate(ctx context.Context, alloc Allocation) error
}

// AllocationKind selects how the ledger distributes funds.
type AllocationKind string

const (
	AllocationDefault AllocationKind = "default_distribution"
	AllocationDirect  AllocationKind = "direct_credit"
	AllocationAuto    AllocationKind = "auto_distribution"
)

// Allocation is a single request to credit a subject.
type Allocation struct {
	IntentID    uuid.UUID
	SubjectID   uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Description string
	Kind        AllocationKind
	TargetID    *uuid.UUID
}

// EventPublisher emits lifecycle events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, aggregateID string, data any) error
}

// Event types published by the gateway.
const (
	EventIntentSucceeded = "intent.succeeded"
	EventIntentFailed    = "intent.failed"
	EventIntentFinalized = "intent.finalized"
	EventRiskDenied      = "risk.denied"
)

// --- Service Ports (Business Logic) ---

// Verdict is the tagged outcome of a single gate.
type Verdict string

const (
	VerdictAllowed       Verdict = "allowed"
	VerdictDenied        Verdict = "denied"
	VerdictIndeterminate Verdict = "indeterminate"
)

// GateRequest is the request context every gate evaluates.
type GateRequest struct {
	SubjectID      uuid.UUID
	Amount         decimal.Decimal
	Direction      domain.TransactionDirection
	OriginCountry  string
	ClientIP       string
	UserAgent      string
	CookiesPresent bool
	At             time.Time
}

// GateResult is what a gate reports back to the chain.
type GateResult struct {
	Verdict    Verdict
	Gate       string
	Kind       domain.RiskEventKind
	Reason     string
	Score      int
	HTTPStatus int
	Limitation *LimitationDetails
	Err        error
}

// LimitationDetails is the public shape of an account limitation denial.
type LimitationDetails struct {
	Status           domain.LimitationStatus `json:"status"`
	Reason           string                  `json:"reason"`
	CountdownMs      int64                   `json:"countdownMs"`
	ReserveReleaseAt *time.Time              `json:"reserveReleaseAt"`
}

// Allowed reports whether the chain lets the request through.
func (r GateResult) Allowed() bool {
	return r.Verdict != VerdictDenied
}

// RiskGate evaluates the ordered gate chain.
type RiskGate interface {
	Evaluate(ctx context.Context, req GateRequest) GateResult
}

// IntentService defines the payment intent lifecycle.
type IntentService interface {
	Initiate(ctx context.Context, req InitiateRequest) (*domain.PaymentIntent, error)
	Confirm(ctx context.Context, idOrRef string) (*domain.PaymentIntent, error)
	HandleProviderCallback(ctx context.Context, provider domain.Provider, payload []byte, ref string) error
	Get(ctx context.Context, subjectID, id uuid.UUID) (*domain.PaymentIntent, error)
}

// InitiateRequest holds validated input for intent creation.
type InitiateRequest struct {
	SubjectID     uuid.UUID
	Kind          domain.IntentKind
	Provider      string
	Amount        decimal.Decimal
	Currency      string
	TargetAccount string
	Phone         string
	// Signals carries the request attributes for the risk gates.
	Signals *GateRequest
	// IdempotencyKey replays the first response for a repeated request when set.
	IdempotencyKey string
}

// Finalizer converts a successful intent into exactly one allocation.
type Finalizer interface {
	Finalize(ctx context.Context, intent *domain.PaymentIntent) error
}

// AuditService records audit entries for write operations.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
