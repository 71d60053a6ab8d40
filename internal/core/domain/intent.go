package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IntentKind is the direction of money movement for a payment intent.
type IntentKind string

const (
	IntentKindDeposit IntentKind = "deposit"
	IntentKindPayout  IntentKind = "payout"
)

// IntentStatus represents the lifecycle state of a payment intent.
type IntentStatus string

const (
	IntentStatusCreated      IntentStatus = "created"
	IntentStatusAwaitingUser IntentStatus = "awaiting_user"
	IntentStatusSuccess      IntentStatus = "success"
	IntentStatusFailed       IntentStatus = "failed"
	IntentStatusCanceled     IntentStatus = "canceled"
	IntentStatusExpired      IntentStatus = "expired"
)

// Provider identifies an external payment provider.
type Provider string

const (
	ProviderMpesa   Provider = "mpesa"
	ProviderAirtel  Provider = "airtel"
	ProviderMTN     Provider = "mtn"
	ProviderGeneric Provider = "generic"
)

// TargetWallet is the generic wallet target; the empty target means "auto".
const TargetWallet = "wallet"

// MetaProcessedAt mirrors FinalizedAt in provider metadata. Only the
// finalizer writes it.
const MetaProcessedAt = "processedAt"

// reservedMetadataKeys are written by the gateway and never taken from a callback.
var reservedMetadataKeys = map[string]struct{}{
	MetaProcessedAt: {},
	"finalizedAt":   {},
}

// CallbackMetadata returns kv without the keys the gateway reserves for itself.
func CallbackMetadata(kv map[string]any) map[string]any {
	out := make(map[string]any, len(kv))
	for k, v := range kv {
		if _, reserved := reservedMetadataKeys[k]; reserved {
			continue
		}
		out[k] = v
	}
	return out
}

var (
	ErrInvalidTransition  = errors.New("invalid intent status transition")
	ErrRefAlreadyAssigned = errors.New("provider reference already assigned")
)

var providerPrefixes = map[Provider]string{
	ProviderMpesa:   "MPESA",
	ProviderAirtel:  "AIRTEL",
	ProviderMTN:     "MTN",
	ProviderGeneric: "GEN",
}

// SupportedProviders lists every provider an intent may be initiated with.
func SupportedProviders() []Provider {
	return []Provider{ProviderMpesa, ProviderAirtel, ProviderMTN, ProviderGeneric}
}

// ParseProvider validates a provider name against the supported set.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	_, ok := providerPrefixes[p]
	return p, ok
}

// IsMobileMoney reports whether the provider pushes a prompt to a phone.
func (p Provider) IsMobileMoney() bool {
	return p == ProviderMpesa || p == ProviderAirtel || p == ProviderMTN
}

// BuildProviderRef derives the provider reference from the intent ID.
// The result is deterministic so a failed assignment can be retried.
func BuildProviderRef(p Provider, id uuid.UUID) string {
	prefix, ok := providerPrefixes[p]
	if !ok {
		prefix = "GEN"
	}
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
}

// transitions is the forward-only status graph.
var transitions = map[IntentStatus][]IntentStatus{
	IntentStatusCreated:      {IntentStatusAwaitingUser, IntentStatusCanceled, IntentStatusExpired},
	IntentStatusAwaitingUser: {IntentStatusSuccess, IntentStatusFailed, IntentStatusCanceled, IntentStatusExpired},
}

// CanTransition reports whether from -> to is an edge of the status graph.
func CanTransition(from, to IntentStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SourcesFor returns every status that may transition into to.
func SourcesFor(to IntentStatus) []IntentStatus {
	var out []IntentStatus
	for _, from := range []IntentStatus{IntentStatusCreated, IntentStatusAwaitingUser} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// IsTerminal returns true if no further transition is possible from s.
func (s IntentStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// PaymentIntent is a durable record of one attempted money movement.
type PaymentIntent struct {
	ID               uuid.UUID       `json:"id"`
	SubjectID        uuid.UUID       `json:"subject_id"`
	ProviderRef      *string         `json:"provider_ref,omitempty"`
	Kind             IntentKind      `json:"kind"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	TargetAccount    string          `json:"target_account"`
	Provider         Provider        `json:"provider"`
	Phone            string          `json:"-"`
	PhoneEncrypted   string          `json:"-"`
	Status           IntentStatus    `json:"status"`
	ProviderMetadata map[string]any  `json:"provider_metadata,omitempty"`
	Error            *string         `json:"error,omitempty"`
	FinalizedAt      *time.Time      `json:"finalized_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// NewPaymentIntent builds an intent in the created state.
func NewPaymentIntent(subjectID uuid.UUID, kind IntentKind, provider Provider, amount decimal.Decimal, currency, target, phone string) *PaymentIntent {
	now := time.Now().UTC()
	return &PaymentIntent{
		ID:               uuid.New(),
		SubjectID:        subjectID,
		Kind:             kind,
		Amount:           amount,
		Currency:         strings.ToUpper(currency),
		TargetAccount:    target,
		Provider:         provider,
		Phone:            phone,
		Status:           IntentStatusCreated,
		ProviderMetadata: map[string]any{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Ref returns the provider reference or "" if unassigned.
func (i *PaymentIntent) Ref() string {
	if i.ProviderRef == nil {
		return ""
	}
	return *i.ProviderRef
}

// AssignProviderRef sets the reference once; re-assigning the same value is a no-op.
func (i *PaymentIntent) AssignProviderRef(ref string) error {
	if i.ProviderRef != nil {
		if *i.ProviderRef == ref {
			return nil
		}
		return ErrRefAlreadyAssigned
	}
	i.ProviderRef = &ref
	return i.Transition(IntentStatusAwaitingUser)
}

// Transition moves the intent forward through the status graph.
func (i *PaymentIntent) Transition(to IntentStatus) error {
	if !CanTransition(i.Status, to) {
		return ErrInvalidTransition
	}
	i.Status = to
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// IsFinalized reports whether the finalizer has recorded completion.
func (i *PaymentIntent) IsFinalized() bool {
	return i.FinalizedAt != nil
}

// MergeMetadata adds keys that are not already present. Existing keys are kept.
func (i *PaymentIntent) MergeMetadata(kv map[string]any) {
	if i.ProviderMetadata == nil {
		i.ProviderMetadata = map[string]any{}
	}
	for k, v := range kv {
		if _, exists := i.ProviderMetadata[k]; !exists {
			i.ProviderMetadata[k] = v
		}
	}
}

// TargetAccountID returns the specific account uuid, if the target names one.
func (i *PaymentIntent) TargetAccountID() (uuid.UUID, bool) {
	return ParseTargetAccount(i.TargetAccount)
}

// ParseTargetAccount distinguishes the wallet/auto targets from a specific account.
func ParseTargetAccount(target string) (uuid.UUID, bool) {
	if target == "" || target == TargetWallet {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(target)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// CallbackOutcome is the canonical result of a provider callback.
type CallbackOutcome struct {
	ProviderRef string
	Success     bool
	Reason      string
	Metadata    map[string]any
}
