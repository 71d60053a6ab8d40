package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- In-Memory Intent Repo ---

type intentRow struct {
	intent    domain.PaymentIntent
	token     *uuid.UUID
	claimedAt time.Time
}

// inMemoryIntentRepo mirrors the compare-and-swap semantics of the
// PostgreSQL repo under a single mutex.
type inMemoryIntentRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*intentRow
	byRef map[string]uuid.UUID
}

func newInMemoryIntentRepo() *inMemoryIntentRepo {
	return &inMemoryIntentRepo{
		rows:  make(map[uuid.UUID]*intentRow),
		byRef: make(map[string]uuid.UUID),
	}
}

func copyIntent(i domain.PaymentIntent) *domain.PaymentIntent {
	out := i
	out.ProviderMetadata = make(map[string]any, len(i.ProviderMetadata))
	for k, v := range i.ProviderMetadata {
		out.ProviderMetadata[k] = v
	}
	if i.ProviderRef != nil {
		ref := *i.ProviderRef
		out.ProviderRef = &ref
	}
	if i.Error != nil {
		msg := *i.Error
		out.Error = &msg
	}
	if i.FinalizedAt != nil {
		at := *i.FinalizedAt
		out.FinalizedAt = &at
	}
	return &out
}

func (r *inMemoryIntentRepo) Create(ctx context.Context, i *domain.PaymentIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i.ProviderRef != nil {
		if _, exists := r.byRef[*i.ProviderRef]; exists {
			return fmt.Errorf("insert payment intent %s: %w", i.ID, ports.ErrDuplicateProviderRef)
		}
		r.byRef[*i.ProviderRef] = i.ID
	}
	r.rows[i.ID] = &intentRow{intent: *copyIntent(*i)}
	return nil
}

func (r *inMemoryIntentRepo) AssignProviderRef(ctx context.Context, id uuid.UUID, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("payment intent not found: %s", id)
	}
	if row.intent.Ref() == ref {
		return nil
	}
	if row.intent.ProviderRef != nil {
		return domain.ErrRefAlreadyAssigned
	}
	if row.intent.Status != domain.IntentStatusCreated {
		return domain.ErrInvalidTransition
	}
	if _, exists := r.byRef[ref]; exists {
		return fmt.Errorf("assign provider ref %s: %w", ref, ports.ErrDuplicateProviderRef)
	}
	row.intent.ProviderRef = &ref
	row.intent.Status = domain.IntentStatusAwaitingUser
	row.intent.UpdatedAt = time.Now().UTC()
	r.byRef[ref] = id
	return nil
}

func (r *inMemoryIntentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return copyIntent(row.intent), nil
}

func (r *inMemoryIntentRepo) GetByProviderRef(ctx context.Context, ref string) (*domain.PaymentIntent, error) {
	r.mu.Lock()
	id, ok := r.byRef[ref]
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *inMemoryIntentRepo) GetByIDForSubject(ctx context.Context, id, subjectID uuid.UUID) (*domain.PaymentIntent, error) {
	i, err := r.GetByID(ctx, id)
	if err != nil || i == nil || i.SubjectID != subjectID {
		return nil, err
	}
	return i, nil
}

func (r *inMemoryIntentRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from []domain.IntentStatus, to domain.IntentStatus, errMsg *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if row.intent.Status == s {
			row.intent.Status = to
			if errMsg != nil {
				msg := *errMsg
				row.intent.Error = &msg
			}
			row.intent.UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryIntentRepo) MergeMetadata(ctx context.Context, id uuid.UUID, kv map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		row.intent.MergeMetadata(kv)
	}
	return nil
}

func (r *inMemoryIntentRepo) ClaimFinalization(ctx context.Context, id, token uuid.UUID, staleAfter time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.intent.Status != domain.IntentStatusSuccess || row.intent.FinalizedAt != nil {
		return false, nil
	}
	now := time.Now()
	if row.token != nil && now.Sub(row.claimedAt) <= staleAfter {
		return false, nil
	}
	row.token = &token
	row.claimedAt = now
	return true, nil
}

func (r *inMemoryIntentRepo) MarkFinalized(ctx context.Context, id, token uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.token == nil || *row.token != token || row.intent.FinalizedAt != nil {
		return false, nil
	}
	row.intent.FinalizedAt = &at
	row.intent.MergeMetadata(map[string]any{domain.MetaProcessedAt: at.UTC().Format(time.RFC3339Nano)})
	row.token = nil
	return true, nil
}

func (r *inMemoryIntentRepo) ReleaseFinalization(ctx context.Context, id, token uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok && row.token != nil && *row.token == token && row.intent.FinalizedAt == nil {
		row.token = nil
	}
	return nil
}

func (r *inMemoryIntentRepo) ListUnfinalized(ctx context.Context, olderThan time.Time, limit int) ([]domain.PaymentIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.PaymentIntent
	for _, row := range r.rows {
		if len(out) >= limit {
			break
		}
		i := row.intent
		if i.Status == domain.IntentStatusSuccess && i.FinalizedAt == nil && i.UpdatedAt.Before(olderThan) {
			out = append(out, *copyIntent(i))
		}
	}
	return out, nil
}

func (r *inMemoryIntentRepo) SumAmountSince(ctx context.Context, subjectID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, row := range r.rows {
		i := row.intent
		if i.SubjectID != subjectID || i.CreatedAt.Before(since) {
			continue
		}
		switch i.Status {
		case domain.IntentStatusFailed, domain.IntentStatusCanceled, domain.IntentStatusExpired:
			continue
		}
		total = total.Add(i.Amount)
	}
	return total, nil
}

// --- In-Memory Policy Store ---

type inMemoryPolicyStore struct {
	mu       sync.RWMutex
	tiers    map[uuid.UUID]string
	limits   map[string]*domain.TierLimits
	geo      *domain.GeoPolicy
	denylist []string
	device   *domain.DeviceRules
}

func newInMemoryPolicyStore() *inMemoryPolicyStore {
	return &inMemoryPolicyStore{
		tiers:  make(map[uuid.UUID]string),
		limits: make(map[string]*domain.TierLimits),
	}
}

func (s *inMemoryPolicyStore) setTier(subjectID uuid.UUID, tier string, daily, monthly int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiers[subjectID] = tier
	s.limits[tier] = &domain.TierLimits{
		Tier:         tier,
		DailyLimit:   decimal.NewFromInt(daily),
		MonthlyLimit: decimal.NewFromInt(monthly),
	}
}

func (s *inMemoryPolicyStore) setGeo(countries ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geo = &domain.GeoPolicy{AllowedCountries: countries}
}

func (s *inMemoryPolicyStore) GetTier(ctx context.Context, subjectID uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tiers[subjectID], nil
}

func (s *inMemoryPolicyStore) GetTierLimits(ctx context.Context, tier string) (*domain.TierLimits, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits[tier], nil
}

func (s *inMemoryPolicyStore) GetGeoPolicy(ctx context.Context) (*domain.GeoPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.geo, nil
}

func (s *inMemoryPolicyStore) GetIPDenylist(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.denylist, nil
}

func (s *inMemoryPolicyStore) GetDeviceRules(ctx context.Context) (*domain.DeviceRules, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.device, nil
}

// --- In-Memory Limitation Store ---

type inMemoryLimitationStore struct {
	mu          sync.RWMutex
	limitations map[uuid.UUID]*domain.AccountLimitation
}

func newInMemoryLimitationStore() *inMemoryLimitationStore {
	return &inMemoryLimitationStore{limitations: make(map[uuid.UUID]*domain.AccountLimitation)}
}

func (s *inMemoryLimitationStore) put(l *domain.AccountLimitation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limitations[l.SubjectID] = l
}

func (s *inMemoryLimitationStore) GetBySubject(ctx context.Context, subjectID uuid.UUID) (*domain.AccountLimitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limitations[subjectID], nil
}

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (r *inMemoryAccountRepo) add(subjectID uuid.UUID, name string) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := &domain.Account{ID: uuid.New(), SubjectID: subjectID, Name: name, Currency: "KES", CreatedAt: time.Now().UTC()}
	r.accounts[a.ID] = a
	return a
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.accounts[id], nil
}

// --- In-Memory Risk Event Repo ---

type inMemoryRiskEventRepo struct {
	mu     sync.Mutex
	events []domain.RiskEvent
}

func (r *inMemoryRiskEventRepo) Create(ctx context.Context, ev *domain.RiskEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return nil
}

func (r *inMemoryRiskEventRepo) kinds() []domain.RiskEventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.RiskEventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu   sync.Mutex
	logs []domain.AuditLog
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, l *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *l)
	return nil
}

func (r *inMemoryAuditRepo) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, len(r.logs))
	for i, l := range r.logs {
		out[i] = l.Action
	}
	return out
}

// --- Counting Allocator ---

// countingAllocator records every allocation per intent.
type countingAllocator struct {
	mu    sync.Mutex
	calls map[uuid.UUID][]ports.Allocation
}

func newCountingAllocator() *countingAllocator {
	return &countingAllocator{calls: make(map[uuid.UUID][]ports.Allocation)}
}

func (a *countingAllocator) Allocate(ctx context.Context, alloc ports.Allocation) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls[alloc.IntentID] = append(a.calls[alloc.IntentID], alloc)
	return nil
}

func (a *countingAllocator) count(intentID uuid.UUID) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls[intentID])
}

func (a *countingAllocator) last(intentID uuid.UUID) (ports.Allocation, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	calls := a.calls[intentID]
	if len(calls) == 0 {
		return ports.Allocation{}, false
	}
	return calls[len(calls)-1], true
}
