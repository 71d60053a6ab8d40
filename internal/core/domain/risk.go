package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RiskEventKind enumerates gate outcomes worth recording.
type RiskEventKind string

const (
	RiskEventGeoBlocked       RiskEventKind = "geo_blocked"
	RiskEventIPDenied         RiskEventKind = "ip_denied"
	RiskEventDeviceBlocked    RiskEventKind = "device_blocked"
	RiskEventAccountLimited   RiskEventKind = "account_limited"
	RiskEventCapExceeded      RiskEventKind = "cap_exceeded"
	RiskEventVelocityExceeded RiskEventKind = "velocity_exceeded"
)

// RiskEvent is an immutable audit record written whenever a gate denies.
type RiskEvent struct {
	ID        uuid.UUID      `json:"id"`
	SubjectID *uuid.UUID     `json:"subject_id,omitempty"`
	Kind      RiskEventKind  `json:"kind"`
	Score     int            `json:"score"` // 0-100
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// TransactionDirection distinguishes money leaving an account from money arriving.
type TransactionDirection string

const (
	DirectionOutgoing TransactionDirection = "outgoing"
	DirectionIncome   TransactionDirection = "income"
)

// DirectionFor maps an intent kind to the direction the gates evaluate.
func DirectionFor(kind IntentKind) TransactionDirection {
	if kind == IntentKindPayout {
		return DirectionOutgoing
	}
	return DirectionIncome
}

// LimitationStatus is the restriction state of an account.
type LimitationStatus string

const (
	LimitationNone         LimitationStatus = "none"
	LimitationTemporary30  LimitationStatus = "temporary_30"
	LimitationTemporary180 LimitationStatus = "temporary_180"
	LimitationPermanent    LimitationStatus = "permanent"
)

// IsTemporary reports whether the limitation lapses at ExpiresAt.
func (s LimitationStatus) IsTemporary() bool {
	return s == LimitationTemporary30 || s == LimitationTemporary180
}

// AccountLimitation describes a restriction placed on a subject.
type AccountLimitation struct {
	SubjectID        uuid.UUID        `json:"subject_id"`
	Status           LimitationStatus `json:"status"`
	Reason           string           `json:"reason"`
	ExpiresAt        *time.Time       `json:"expires_at,omitempty"`
	ReserveReleaseAt *time.Time       `json:"reserve_release_at,omitempty"`
}

// Active reports whether the limitation restricts outgoing transactions at now.
func (l *AccountLimitation) Active(now time.Time) bool {
	if l == nil {
		return false
	}
	switch {
	case l.Status == LimitationPermanent:
		return true
	case l.Status.IsTemporary():
		return l.ExpiresAt == nil || now.Before(*l.ExpiresAt)
	default:
		return false
	}
}

// Countdown returns max(0, ExpiresAt - now) for temporary limitations.
func (l *AccountLimitation) Countdown(now time.Time) time.Duration {
	if l == nil || !l.Status.IsTemporary() || l.ExpiresAt == nil {
		return 0
	}
	d := l.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// TierLimits holds the caps for one KYC tier.
type TierLimits struct {
	Tier         string          `json:"tier"`
	DailyLimit   decimal.Decimal `json:"daily_limit"`
	MonthlyLimit decimal.Decimal `json:"monthly_limit"`
}

// GeoPolicy restricts origin countries. An empty allowlist means unrestricted.
type GeoPolicy struct {
	AllowedCountries []string `json:"allowed_countries"`
}

// DeviceRules toggles device-level checks.
type DeviceRules struct {
	BlockHeadless  bool `json:"block_headless"`
	RequireCookies bool `json:"require_cookies"`
}
