package service

import (
	"context"
	"fmt"
	"time"

	"mobile-money-gateway/config"
	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/internal/core/ports"
	"mobile-money-gateway/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IntentFinalizer implements ports.Finalizer. Exactly one caller per intent
// wins the storage-level claim and performs the allocation.
type IntentFinalizer struct {
	intents   ports.IntentRepository
	allocator ports.Allocator
	publisher ports.EventPublisher
	claimTTL  time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewIntentFinalizer creates a finalizer. publisher may be nil.
func NewIntentFinalizer(intents ports.IntentRepository, allocator ports.Allocator, publisher ports.EventPublisher, cfg config.FinalizerConfig, log zerolog.Logger) *IntentFinalizer {
	ttl := cfg.ClaimTTL
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &IntentFinalizer{
		intents:   intents,
		allocator: allocator,
		publisher: publisher,
		claimTTL:  ttl,
		now:       func() time.Time { return time.Now().UTC() },
		log:       logger.Component(log, "finalizer"),
	}
}

// Finalize credits a successful intent once. A failed allocation releases the
// claim and returns nil; the missing marker is what makes the intent retryable.
func (f *IntentFinalizer) Finalize(ctx context.Context, intent *domain.PaymentIntent) error {
	if intent == nil || intent.Status != domain.IntentStatusSuccess {
		return nil
	}
	if intent.IsFinalized() {
		finalizations.WithLabelValues("skipped").Inc()
		return nil
	}

	log := f.log.With().Str("intent_id", intent.ID.String()).Str("provider_ref", intent.Ref()).Logger()

	token := uuid.New()
	won, err := f.intents.ClaimFinalization(ctx, intent.ID, token, f.claimTTL)
	if err != nil {
		finalizations.WithLabelValues("error").Inc()
		return fmt.Errorf("claim finalization: %w", err)
	}
	if !won {
		finalizations.WithLabelValues("lost_claim").Inc()
		log.Debug().Msg("Finalization already claimed or done")
		return nil
	}

	if intent.Kind == domain.IntentKindDeposit {
		if err := f.allocator.Allocate(ctx, allocationFor(intent)); err != nil {
			finalizations.WithLabelValues("allocation_failed").Inc()
			log.Error().Err(err).Msg("Allocation failed, intent left unfinalized for retry")
			if rerr := f.intents.ReleaseFinalization(ctx, intent.ID, token); rerr != nil {
				log.Warn().Err(rerr).Msg("Failed to release finalization claim, it will go stale")
			}
			return nil
		}
	}

	at := f.now()
	marked, err := f.intents.MarkFinalized(ctx, intent.ID, token, at)
	if err != nil {
		finalizations.WithLabelValues("error").Inc()
		return fmt.Errorf("mark finalized: %w", err)
	}
	if !marked {
		log.Warn().Msg("Finalization claim expired before marker was written")
		finalizations.WithLabelValues("lost_claim").Inc()
		return nil
	}

	intent.FinalizedAt = &at
	intent.MergeMetadata(map[string]any{domain.MetaProcessedAt: at.Format(time.RFC3339Nano)})
	finalizations.WithLabelValues("finalized").Inc()
	log.Info().Str("amount", intent.Amount.String()).Msg("Intent finalized")

	if f.publisher != nil {
		if err := f.publisher.Publish(ctx, ports.EventIntentFinalized, intent.ID.String(), intent); err != nil {
			log.Warn().Err(err).Msg("Failed to publish finalization event")
		}
	}
	return nil
}

// allocationFor maps the intent's target to an allocation:
// wallet is the default distribution, an account id is a direct credit,
// and an empty target is auto distribution.
func allocationFor(intent *domain.PaymentIntent) ports.Allocation {
	alloc := ports.Allocation{
		IntentID:    intent.ID,
		SubjectID:   intent.SubjectID,
		Amount:      intent.Amount,
		Currency:    intent.Currency,
		Description: fmt.Sprintf("Deposit %s via %s", intent.Ref(), intent.Provider),
		Kind:        ports.AllocationAuto,
	}
	if intent.TargetAccount == domain.TargetWallet {
		alloc.Kind = ports.AllocationDefault
	} else if id, ok := intent.TargetAccountID(); ok {
		alloc.Kind = ports.AllocationDirect
		alloc.TargetID = &id
	}
	return alloc
}

// FinalizationSweeper periodically retries success intents that still lack
// the finalization marker.
type FinalizationSweeper struct {
	intents   ports.IntentRepository
	finalizer ports.Finalizer
	interval  time.Duration
	grace     time.Duration
	batchSize int
	log       zerolog.Logger
}

// NewFinalizationSweeper creates a sweeper.
func NewFinalizationSweeper(intents ports.IntentRepository, finalizer ports.Finalizer, cfg config.FinalizerConfig, log zerolog.Logger) *FinalizationSweeper {
	s := &FinalizationSweeper{
		intents:   intents,
		finalizer: finalizer,
		interval:  cfg.SweepInterval,
		grace:     cfg.ClaimTTL,
		batchSize: cfg.BatchSize,
		log:       logger.Component(log, "sweeper"),
	}
	if s.interval <= 0 {
		s.interval = time.Minute
	}
	if s.batchSize <= 0 {
		s.batchSize = 50
	}
	return s
}

// Run sweeps until ctx is cancelled.
func (s *FinalizationSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("Finalization sweeper started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Finalization sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.log.Error().Err(err).Msg("Finalization sweep failed")
			}
		}
	}
}

// SweepOnce finalizes one batch and returns how many intents it attempted.
// Intents updated within the claim TTL are left to their in-flight finalizer.
func (s *FinalizationSweeper) SweepOnce(ctx context.Context) (int, error) {
	pending, err := s.intents.ListUnfinalized(ctx, time.Now().UTC().Add(-s.grace), s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list unfinalized: %w", err)
	}
	for i := range pending {
		if ctx.Err() != nil {
			return i, ctx.Err()
		}
		if err := s.finalizer.Finalize(ctx, &pending[i]); err != nil {
			s.log.Warn().Err(err).Str("intent_id", pending[i].ID.String()).Msg("Retry finalization failed")
		}
	}
	if len(pending) > 0 {
		s.log.Info().Int("count", len(pending)).Msg("Swept unfinalized intents")
	}
	return len(pending), nil
}
