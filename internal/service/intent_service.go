package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"mobile-money-gateway/config"
	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/internal/core/ports"
	"mobile-money-gateway/pkg/apperror"
	"mobile-money-gateway/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IntentServiceImpl implements ports.IntentService.
type IntentServiceImpl struct {
	intents    ports.IntentRepository
	accounts   ports.AccountRepository
	finalizer  ports.Finalizer
	parser     ports.CallbackParser
	encSvc     ports.EncryptionService
	gate       ports.RiskGate           // optional
	idempCache ports.IdempotencyCache   // optional
	dedup      ports.CallbackDedupStore // optional
	publisher  ports.EventPublisher     // optional
	cfg        config.ProvidersConfig
	sim        *simulator
	log        zerolog.Logger
}

// IntentServiceDeps groups the collaborators of the intent service.
type IntentServiceDeps struct {
	Intents    ports.IntentRepository
	Accounts   ports.AccountRepository
	Finalizer  ports.Finalizer
	Parser     ports.CallbackParser
	Encryption ports.EncryptionService
	RiskGate   ports.RiskGate
	IdempCache ports.IdempotencyCache
	Dedup      ports.CallbackDedupStore
	Publisher  ports.EventPublisher
}

// NewIntentService creates a new IntentServiceImpl.
func NewIntentService(deps IntentServiceDeps, cfg config.ProvidersConfig, log zerolog.Logger) *IntentServiceImpl {
	s := &IntentServiceImpl{
		intents:    deps.Intents,
		accounts:   deps.Accounts,
		finalizer:  deps.Finalizer,
		parser:     deps.Parser,
		encSvc:     deps.Encryption,
		gate:       deps.RiskGate,
		idempCache: deps.IdempCache,
		dedup:      deps.Dedup,
		publisher:  deps.Publisher,
		cfg:        cfg,
		log:        logger.Component(log, "intents"),
	}
	if cfg.Simulated {
		s.sim = newSimulator(cfg.SimulationDelay, s.completeSimulated)
	}
	return s
}

// Shutdown cancels pending simulated completions and waits for running ones.
func (s *IntentServiceImpl) Shutdown() {
	if s.sim != nil {
		s.sim.stop()
	}
}

// Initiate creates an intent, assigns its provider reference and returns it.
func (s *IntentServiceImpl) Initiate(ctx context.Context, req ports.InitiateRequest) (*domain.PaymentIntent, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	provider, ok := domain.ParseProvider(req.Provider)
	if !ok {
		return nil, apperror.ErrUnsupportedProvider()
	}
	if !validCurrency(req.Currency) {
		return nil, apperror.ErrInvalidCurrency()
	}
	phone := strings.TrimSpace(req.Phone)
	if provider.IsMobileMoney() && phone == "" {
		return nil, apperror.ErrPhoneRequired()
	}
	kind := req.Kind
	if kind == "" {
		kind = domain.IntentKindDeposit
	}

	// A repeated key returns the intent it already created without
	// running the gates again.
	if replay := s.replay(ctx, req); replay != nil {
		return replay, nil
	}

	if err := s.checkTarget(ctx, req.SubjectID, req.TargetAccount); err != nil {
		return nil, err
	}
	if err := s.admit(ctx, req, kind); err != nil {
		return nil, err
	}

	intent := domain.NewPaymentIntent(req.SubjectID, kind, provider, req.Amount, req.Currency, req.TargetAccount, phone)
	if phone != "" {
		enc, err := s.encSvc.Encrypt(phone)
		if err != nil {
			return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt phone: %w", err))
		}
		intent.PhoneEncrypted = enc
	}

	if err := s.intents.Create(ctx, intent); err != nil {
		if errors.Is(err, ports.ErrDuplicateProviderRef) {
			return nil, apperror.ErrDuplicateProviderRef()
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create intent: %w", err))
	}

	ref := domain.BuildProviderRef(provider, intent.ID)
	if err := s.assignRef(ctx, intent.ID, ref); err != nil {
		if errors.Is(err, ports.ErrDuplicateProviderRef) {
			return nil, apperror.ErrDuplicateProviderRef()
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("assign provider ref: %w", err))
	}
	if err := intent.AssignProviderRef(ref); err != nil {
		return nil, apperror.InternalError(err)
	}
	intentTransitions.WithLabelValues(string(domain.IntentStatusAwaitingUser), "initiate").Inc()

	ev := s.log.Info().
		Str("intent_id", intent.ID.String()).
		Str("provider_ref", ref).
		Str("subject_id", req.SubjectID.String()).
		Str("kind", string(kind)).
		Str("amount", req.Amount.String())
	if req.Signals != nil {
		ev = ev.Str("client_ip", req.Signals.ClientIP)
	}
	ev.Msg("Payment intent created")

	if s.sim != nil {
		s.sim.schedule(intent.ID)
	}

	if req.IdempotencyKey != "" && s.idempCache != nil {
		if err := s.idempCache.Remember(ctx, req.SubjectID, req.IdempotencyKey, intent.ID); err != nil {
			s.log.Warn().Err(err).Str("intent_id", intent.ID.String()).Msg("Failed to remember idempotency key")
		}
	}
	return intent, nil
}

// replay returns the intent already created for the request's idempotency
// key. Cache failures fall through to a fresh initiate.
func (s *IntentServiceImpl) replay(ctx context.Context, req ports.InitiateRequest) *domain.PaymentIntent {
	if req.IdempotencyKey == "" || s.idempCache == nil {
		return nil
	}
	log := s.log.With().Str("subject_id", req.SubjectID.String()).Str("idempotency_key", req.IdempotencyKey).Logger()

	id, err := s.idempCache.Lookup(ctx, req.SubjectID, req.IdempotencyKey)
	if err != nil {
		log.Warn().Err(err).Msg("Idempotency cache read failed, processing request")
		return nil
	}
	if id == uuid.Nil {
		return nil
	}
	intent, err := s.intents.GetByIDForSubject(ctx, id, req.SubjectID)
	if err != nil || intent == nil {
		log.Warn().Err(err).Str("intent_id", id.String()).Msg("Remembered intent not readable, processing request")
		return nil
	}
	log.Debug().Str("intent_id", id.String()).Msg("Initiate replayed")
	return intent
}

// admit runs the risk gate chain for a validated initiate request.
// The direction follows the intent kind, which the route fixes.
func (s *IntentServiceImpl) admit(ctx context.Context, req ports.InitiateRequest, kind domain.IntentKind) error {
	if s.gate == nil {
		return nil
	}
	var gr ports.GateRequest
	if req.Signals != nil {
		gr = *req.Signals
	}
	gr.SubjectID = req.SubjectID
	gr.Amount = req.Amount
	gr.Direction = domain.DirectionFor(kind)
	gr.At = time.Now().UTC()

	res := s.gate.Evaluate(ctx, gr)
	if res.Allowed() {
		return nil
	}

	s.log.Info().
		Str("gate", res.Gate).
		Str("subject_id", req.SubjectID.String()).
		Int("status", res.HTTPStatus).
		Msg("Initiate denied by risk gate")

	appErr := apperror.ErrRiskDenied(string(res.Kind), res.Reason, res.HTTPStatus)
	if res.Limitation != nil {
		appErr = appErr.WithLimitation(res.Limitation)
	}
	return appErr
}

// checkTarget validates that a specific target account exists and belongs to subject.
func (s *IntentServiceImpl) checkTarget(ctx context.Context, subjectID uuid.UUID, target string) error {
	if target == "" || target == domain.TargetWallet {
		return nil
	}
	id, ok := domain.ParseTargetAccount(target)
	if !ok {
		return apperror.ErrInvalidTargetAccount()
	}
	acct, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return apperror.ErrDatabaseError(fmt.Errorf("get account: %w", err))
	}
	if !acct.OwnedBy(subjectID) {
		return apperror.ErrNotFound("account")
	}
	return nil
}

// assignRef retries transient storage failures. Conflicts are permanent.
func (s *IntentServiceImpl) assignRef(ctx context.Context, id uuid.UUID, ref string) error {
	op := func() error {
		err := s.intents.AssignProviderRef(ctx, id, ref)
		if err == nil {
			return nil
		}
		if errors.Is(err, ports.ErrDuplicateProviderRef) ||
			errors.Is(err, domain.ErrRefAlreadyAssigned) ||
			errors.Is(err, domain.ErrInvalidTransition) {
			return backoff.Permanent(err)
		}
		return err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 50 * time.Millisecond
	eb.MaxElapsedTime = 5 * time.Second
	b := backoff.WithContext(backoff.WithMaxRetries(eb, 3), ctx)

	return backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		s.log.Warn().Err(err).Str("intent_id", id.String()).Dur("retry_in", wait).Msg("Provider ref assignment failed, retrying")
	})
}

// Confirm marks a deposit successful. Confirming an already successful intent
// is idempotent and retries finalization.
func (s *IntentServiceImpl) Confirm(ctx context.Context, idOrRef string) (*domain.PaymentIntent, error) {
	intent, err := s.lookup(ctx, strings.TrimSpace(idOrRef))
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if intent == nil {
		return nil, apperror.ErrNotFound("intent")
	}
	if intent.Kind != domain.IntentKindDeposit {
		return nil, apperror.ErrNotDeposit()
	}

	if intent.Status != domain.IntentStatusSuccess {
		if intent.Status.IsTerminal() {
			return nil, apperror.ErrIntentNotConfirmable(string(intent.Status))
		}
		won, err := s.intents.TransitionStatus(ctx, intent.ID, domain.SourcesFor(domain.IntentStatusSuccess), domain.IntentStatusSuccess, nil)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("confirm intent: %w", err))
		}
		if won {
			s.onSucceeded(ctx, intent, "confirm")
		} else {
			// Lost the race; see who won.
			current, err := s.intents.GetByID(ctx, intent.ID)
			if err != nil {
				return nil, apperror.ErrDatabaseError(fmt.Errorf("reload intent: %w", err))
			}
			if current == nil {
				return nil, apperror.ErrNotFound("intent")
			}
			if current.Status != domain.IntentStatusSuccess {
				return nil, apperror.ErrIntentNotConfirmable(string(current.Status))
			}
			intent = current
		}
	}

	s.finalize(ctx, intent)
	return intent, nil
}

func (s *IntentServiceImpl) lookup(ctx context.Context, idOrRef string) (*domain.PaymentIntent, error) {
	if id, err := uuid.Parse(idOrRef); err == nil {
		intent, err := s.intents.GetByID(ctx, id)
		if err != nil || intent != nil {
			return intent, err
		}
	}
	if idOrRef == "" {
		return nil, nil
	}
	return s.intents.GetByProviderRef(ctx, idOrRef)
}

// HandleProviderCallback applies a provider callback. Malformed payloads,
// unknown references and stale outcomes are logged and dropped; the caller
// acknowledges the provider regardless of the returned error.
func (s *IntentServiceImpl) HandleProviderCallback(ctx context.Context, provider domain.Provider, payload []byte, ref string) error {
	sum := sha256.Sum256(payload)
	digest := hex.EncodeToString(sum[:])
	log := s.log.With().Str("provider", string(provider)).Str("digest", digest[:16]).Logger()

	if s.dedup != nil {
		first, err := s.dedup.FirstSeen(ctx, string(provider), digest, s.dedupTTL())
		if err != nil {
			log.Warn().Err(err).Msg("Callback dedup unavailable, processing anyway")
		} else if !first {
			callbacksReceived.WithLabelValues(string(provider), "duplicate").Inc()
			log.Debug().Msg("Duplicate callback dropped")
			return nil
		}
	}

	err := s.applyCallback(ctx, provider, payload, ref, log)
	if err != nil && s.dedup != nil {
		if ferr := s.dedup.Forget(ctx, string(provider), digest); ferr != nil {
			log.Warn().Err(ferr).Msg("Failed to clear callback digest")
		}
	}
	return err
}

func (s *IntentServiceImpl) applyCallback(ctx context.Context, provider domain.Provider, payload []byte, ref string, log zerolog.Logger) error {
	outcome, err := s.parser.Parse(provider, payload, ref)
	if err != nil {
		callbacksReceived.WithLabelValues(string(provider), "malformed").Inc()
		log.Warn().Err(err).Msg("Unparseable provider callback acknowledged")
		return nil
	}
	log = log.With().Str("provider_ref", outcome.ProviderRef).Logger()

	intent, err := s.intents.GetByProviderRef(ctx, outcome.ProviderRef)
	if err != nil {
		callbacksReceived.WithLabelValues(string(provider), "error").Inc()
		return fmt.Errorf("lookup intent by ref: %w", err)
	}
	if intent == nil {
		callbacksReceived.WithLabelValues(string(provider), "unknown_ref").Inc()
		log.Warn().Msg("Callback for unknown provider reference acknowledged")
		return nil
	}
	log = log.With().Str("intent_id", intent.ID.String()).Logger()

	if meta := domain.CallbackMetadata(outcome.Metadata); len(meta) > 0 {
		if err := s.intents.MergeMetadata(ctx, intent.ID, meta); err != nil {
			log.Warn().Err(err).Msg("Failed to merge callback metadata")
		} else {
			intent.MergeMetadata(meta)
		}
	}

	if outcome.Success {
		return s.applySuccess(ctx, intent, log)
	}
	return s.applyFailure(ctx, intent, outcome.Reason, log)
}

func (s *IntentServiceImpl) applySuccess(ctx context.Context, intent *domain.PaymentIntent, log zerolog.Logger) error {
	provider := string(intent.Provider)
	if intent.Status != domain.IntentStatusSuccess {
		won, err := s.intents.TransitionStatus(ctx, intent.ID, domain.SourcesFor(domain.IntentStatusSuccess), domain.IntentStatusSuccess, nil)
		if err != nil {
			callbacksReceived.WithLabelValues(provider, "error").Inc()
			return fmt.Errorf("transition to success: %w", err)
		}
		if won {
			s.onSucceeded(ctx, intent, "callback")
		} else {
			current, err := s.intents.GetByID(ctx, intent.ID)
			if err != nil {
				callbacksReceived.WithLabelValues(provider, "error").Inc()
				return fmt.Errorf("reload intent: %w", err)
			}
			if current == nil || current.Status != domain.IntentStatusSuccess {
				callbacksReceived.WithLabelValues(provider, "ignored").Inc()
				log.Warn().Str("status", string(intent.Status)).Msg("Success callback for intent that can no longer succeed")
				return nil
			}
			intent = current
		}
	}

	callbacksReceived.WithLabelValues(provider, "applied").Inc()
	s.finalize(ctx, intent)
	return nil
}

func (s *IntentServiceImpl) applyFailure(ctx context.Context, intent *domain.PaymentIntent, reason string, log zerolog.Logger) error {
	provider := string(intent.Provider)
	if intent.Status.IsTerminal() {
		callbacksReceived.WithLabelValues(provider, "ignored").Inc()
		log.Info().Str("status", string(intent.Status)).Msg("Late failure callback ignored")
		return nil
	}
	if reason == "" {
		reason = "provider reported failure"
	}

	won, err := s.intents.TransitionStatus(ctx, intent.ID, domain.SourcesFor(domain.IntentStatusFailed), domain.IntentStatusFailed, &reason)
	if err != nil {
		callbacksReceived.WithLabelValues(provider, "error").Inc()
		return fmt.Errorf("transition to failed: %w", err)
	}
	if !won {
		callbacksReceived.WithLabelValues(provider, "ignored").Inc()
		log.Info().Msg("Failure callback lost the race, intent already moved on")
		return nil
	}

	intent.Status = domain.IntentStatusFailed
	intent.Error = &reason
	callbacksReceived.WithLabelValues(provider, "applied").Inc()
	intentTransitions.WithLabelValues(string(domain.IntentStatusFailed), "callback").Inc()
	log.Info().Str("reason", reason).Msg("Payment intent failed")
	s.publish(ctx, ports.EventIntentFailed, intent)
	return nil
}

// Get returns the subject's intent.
func (s *IntentServiceImpl) Get(ctx context.Context, subjectID, id uuid.UUID) (*domain.PaymentIntent, error) {
	intent, err := s.intents.GetByIDForSubject(ctx, id, subjectID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get intent: %w", err))
	}
	if intent == nil {
		return nil, apperror.ErrNotFound("intent")
	}
	return intent, nil
}

// onSucceeded runs after this caller won the transition to success.
func (s *IntentServiceImpl) onSucceeded(ctx context.Context, intent *domain.PaymentIntent, source string) {
	intent.Status = domain.IntentStatusSuccess
	intent.UpdatedAt = time.Now().UTC()
	intentTransitions.WithLabelValues(string(domain.IntentStatusSuccess), source).Inc()
	s.log.Info().
		Str("intent_id", intent.ID.String()).
		Str("provider_ref", intent.Ref()).
		Str("source", source).
		Msg("Payment intent succeeded")
	s.publish(ctx, ports.EventIntentSucceeded, intent)
}

func (s *IntentServiceImpl) finalize(ctx context.Context, intent *domain.PaymentIntent) {
	if err := s.finalizer.Finalize(ctx, intent); err != nil {
		s.log.Error().Err(err).Str("intent_id", intent.ID.String()).Msg("Finalization error, sweeper will retry")
	}
}

func (s *IntentServiceImpl) publish(ctx context.Context, eventType string, intent *domain.PaymentIntent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, intent.ID.String(), intent); err != nil {
		s.log.Warn().Err(err).Str("intent_id", intent.ID.String()).Str("type", eventType).Msg("Failed to publish event")
	}
}

// completeSimulated is the deferred action of a simulated provider.
func (s *IntentServiceImpl) completeSimulated(ctx context.Context, id uuid.UUID) {
	won, err := s.intents.TransitionStatus(ctx, id, []domain.IntentStatus{domain.IntentStatusAwaitingUser}, domain.IntentStatusSuccess, nil)
	if err != nil {
		s.log.Error().Err(err).Str("intent_id", id.String()).Msg("Simulated completion failed")
		return
	}
	if !won {
		return
	}
	intent, err := s.intents.GetByID(ctx, id)
	if err != nil || intent == nil {
		s.log.Error().Err(err).Str("intent_id", id.String()).Msg("Reload after simulated completion failed")
		return
	}
	s.onSucceeded(ctx, intent, "simulation")
	s.finalize(ctx, intent)
}

func (s *IntentServiceImpl) dedupTTL() time.Duration {
	if s.cfg.DedupTTL > 0 {
		return s.cfg.DedupTTL
	}
	return 24 * time.Hour
}

func validCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
