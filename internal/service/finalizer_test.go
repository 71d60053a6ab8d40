package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mobile-money-gateway/config"
	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/internal/core/ports"
	"mobile-money-gateway/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func successIntent(kind domain.IntentKind, target string) *domain.PaymentIntent {
	i := domain.NewPaymentIntent(uuid.New(), kind, domain.ProviderMpesa, decimal.RequireFromString("150.50"), "KES", target, "254700000001")
	ref := domain.BuildProviderRef(domain.ProviderMpesa, i.ID)
	i.ProviderRef = &ref
	i.Status = domain.IntentStatusSuccess
	return i
}

func TestAllocationFor(t *testing.T) {
	account := uuid.New()

	tests := []struct {
		name   string
		target string
		kind   ports.AllocationKind
		direct *uuid.UUID
	}{
		{"wallet", domain.TargetWallet, ports.AllocationDefault, nil},
		{"account", account.String(), ports.AllocationDirect, &account},
		{"auto", "", ports.AllocationAuto, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := successIntent(domain.IntentKindDeposit, tt.target)
			alloc := allocationFor(intent)

			assert.Equal(t, tt.kind, alloc.Kind)
			assert.Equal(t, tt.direct, alloc.TargetID)
			assert.Equal(t, intent.ID, alloc.IntentID)
			assert.Equal(t, intent.SubjectID, alloc.SubjectID)
			assert.True(t, alloc.Amount.Equal(intent.Amount))
			assert.Equal(t, "KES", alloc.Currency)
			assert.Equal(t, "Deposit "+intent.Ref()+" via mpesa", alloc.Description)
		})
	}
}

func TestFinalize_Deposit(t *testing.T) {
	ctrl := gomock.NewController(t)
	intents := mocks.NewMockIntentRepository(ctrl)
	allocator := mocks.NewMockAllocator(ctrl)
	publisher := mocks.NewMockEventPublisher(ctrl)

	intent := successIntent(domain.IntentKindDeposit, domain.TargetWallet)

	var token uuid.UUID
	gomock.InOrder(
		intents.EXPECT().ClaimFinalization(gomock.Any(), intent.ID, gomock.Any(), 2*time.Minute).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, tok uuid.UUID, _ time.Duration) (bool, error) {
				token = tok
				return true, nil
			}),
		allocator.EXPECT().Allocate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a ports.Allocation) error {
				assert.Equal(t, ports.AllocationDefault, a.Kind)
				return nil
			}),
		intents.EXPECT().MarkFinalized(gomock.Any(), intent.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, tok uuid.UUID, _ time.Time) (bool, error) {
				assert.Equal(t, token, tok, "marker must be written with the claim token")
				return true, nil
			}),
		publisher.EXPECT().Publish(gomock.Any(), ports.EventIntentFinalized, intent.ID.String(), gomock.Any()).Return(nil),
	)

	f := NewIntentFinalizer(intents, allocator, publisher, config.FinalizerConfig{}, newTestLogger())
	require.NoError(t, f.Finalize(context.Background(), intent))

	assert.NotNil(t, intent.FinalizedAt)
	assert.True(t, intent.IsFinalized())
	assert.Contains(t, intent.ProviderMetadata, domain.MetaProcessedAt)
}

func TestFinalize_SkipsWhenNotApplicable(t *testing.T) {
	ctrl := gomock.NewController(t)
	intents := mocks.NewMockIntentRepository(ctrl)
	allocator := mocks.NewMockAllocator(ctrl)
	f := NewIntentFinalizer(intents, allocator, nil, config.FinalizerConfig{}, newTestLogger())

	pending := successIntent(domain.IntentKindDeposit, "")
	pending.Status = domain.IntentStatusAwaitingUser
	require.NoError(t, f.Finalize(context.Background(), pending))

	done := successIntent(domain.IntentKindDeposit, "")
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	done.FinalizedAt = &at
	require.NoError(t, f.Finalize(context.Background(), done))

	require.NoError(t, f.Finalize(context.Background(), nil))
}

func TestFinalize_LostClaim(t *testing.T) {
	ctrl := gomock.NewController(t)
	intents := mocks.NewMockIntentRepository(ctrl)
	allocator := mocks.NewMockAllocator(ctrl)

	intent := successIntent(domain.IntentKindDeposit, "")
	intents.EXPECT().ClaimFinalization(gomock.Any(), intent.ID, gomock.Any(), time.Minute).Return(false, nil)

	f := NewIntentFinalizer(intents, allocator, nil, config.FinalizerConfig{ClaimTTL: time.Minute}, newTestLogger())
	require.NoError(t, f.Finalize(context.Background(), intent))
	assert.Nil(t, intent.FinalizedAt)
}

func TestFinalize_AllocationFailureReleasesClaim(t *testing.T) {
	ctrl := gomock.NewController(t)
	intents := mocks.NewMockIntentRepository(ctrl)
	allocator := mocks.NewMockAllocator(ctrl)

	intent := successIntent(domain.IntentKindDeposit, "")

	var token uuid.UUID
	intents.EXPECT().ClaimFinalization(gomock.Any(), intent.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, tok uuid.UUID, _ time.Duration) (bool, error) {
			token = tok
			return true, nil
		})
	allocator.EXPECT().Allocate(gomock.Any(), gomock.Any()).Return(errors.New("ledger unavailable"))
	intents.EXPECT().ReleaseFinalization(gomock.Any(), intent.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, tok uuid.UUID) error {
			assert.Equal(t, token, tok)
			return nil
		})

	f := NewIntentFinalizer(intents, allocator, nil, config.FinalizerConfig{}, newTestLogger())
	require.NoError(t, f.Finalize(context.Background(), intent))

	assert.Nil(t, intent.FinalizedAt)
	assert.False(t, intent.IsFinalized())
}

func TestFinalize_PayoutSkipsAllocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	intents := mocks.NewMockIntentRepository(ctrl)
	allocator := mocks.NewMockAllocator(ctrl)

	intent := successIntent(domain.IntentKindPayout, "")
	intents.EXPECT().ClaimFinalization(gomock.Any(), intent.ID, gomock.Any(), gomock.Any()).Return(true, nil)
	intents.EXPECT().MarkFinalized(gomock.Any(), intent.ID, gomock.Any(), gomock.Any()).Return(true, nil)

	f := NewIntentFinalizer(intents, allocator, nil, config.FinalizerConfig{}, newTestLogger())
	require.NoError(t, f.Finalize(context.Background(), intent))
	assert.True(t, intent.IsFinalized())
}

func TestFinalize_ClaimError(t *testing.T) {
	ctrl := gomock.NewController(t)
	intents := mocks.NewMockIntentRepository(ctrl)

	intent := successIntent(domain.IntentKindDeposit, "")
	intents.EXPECT().ClaimFinalization(gomock.Any(), intent.ID, gomock.Any(), gomock.Any()).Return(false, errors.New("connection reset"))

	f := NewIntentFinalizer(intents, mocks.NewMockAllocator(ctrl), nil, config.FinalizerConfig{}, newTestLogger())
	err := f.Finalize(context.Background(), intent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claim finalization")
}

func TestFinalize_ExpiredClaimDoesNotMark(t *testing.T) {
	ctrl := gomock.NewController(t)
	intents := mocks.NewMockIntentRepository(ctrl)
	allocator := mocks.NewMockAllocator(ctrl)
	publisher := mocks.NewMockEventPublisher(ctrl)

	intent := successIntent(domain.IntentKindDeposit, "")
	intents.EXPECT().ClaimFinalization(gomock.Any(), intent.ID, gomock.Any(), gomock.Any()).Return(true, nil)
	allocator.EXPECT().Allocate(gomock.Any(), gomock.Any()).Return(nil)
	intents.EXPECT().MarkFinalized(gomock.Any(), intent.ID, gomock.Any(), gomock.Any()).Return(false, nil)

	f := NewIntentFinalizer(intents, allocator, publisher, config.FinalizerConfig{}, newTestLogger())
	require.NoError(t, f.Finalize(context.Background(), intent))
	assert.Nil(t, intent.FinalizedAt)
}

func TestSweepOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	intents := mocks.NewMockIntentRepository(ctrl)
	finalizer := mocks.NewMockFinalizer(ctrl)

	a := successIntent(domain.IntentKindDeposit, "")
	b := successIntent(domain.IntentKindDeposit, domain.TargetWallet)

	before := time.Now().UTC()
	intents.EXPECT().ListUnfinalized(gomock.Any(), gomock.Any(), 10).
		DoAndReturn(func(_ context.Context, olderThan time.Time, _ int) ([]domain.PaymentIntent, error) {
			assert.True(t, olderThan.Before(before.Add(-29*time.Second)), "sweeper must leave in-flight claims alone")
			return []domain.PaymentIntent{*a, *b}, nil
		})
	finalizer.EXPECT().Finalize(gomock.Any(), gomock.Any()).Return(nil)
	finalizer.EXPECT().Finalize(gomock.Any(), gomock.Any()).Return(errors.New("boom"))

	s := NewFinalizationSweeper(intents, finalizer, config.FinalizerConfig{ClaimTTL: 30 * time.Second, BatchSize: 10}, newTestLogger())
	n, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSweepOnce_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	intents := mocks.NewMockIntentRepository(ctrl)
	intents.EXPECT().ListUnfinalized(gomock.Any(), gomock.Any(), 50).Return(nil, errors.New("db down"))

	s := NewFinalizationSweeper(intents, mocks.NewMockFinalizer(ctrl), config.FinalizerConfig{}, newTestLogger())
	_, err := s.SweepOnce(context.Background())
	assert.Error(t, err)
}

func TestSweeperRun_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	intents := mocks.NewMockIntentRepository(ctrl)
	intents.EXPECT().ListUnfinalized(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	s := NewFinalizationSweeper(intents, mocks.NewMockFinalizer(ctrl), config.FinalizerConfig{SweepInterval: 5 * time.Millisecond}, newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestFinalize_MetadataMarkerWithoutTimestampStillAllocates(t *testing.T) {
	ctrl := gomock.NewController(t)
	intents := mocks.NewMockIntentRepository(ctrl)
	allocator := mocks.NewMockAllocator(ctrl)

	intent := successIntent(domain.IntentKindDeposit, "")
	intent.ProviderMetadata = map[string]any{domain.MetaProcessedAt: "x"}

	intents.EXPECT().ClaimFinalization(gomock.Any(), intent.ID, gomock.Any(), gomock.Any()).Return(true, nil)
	allocator.EXPECT().Allocate(gomock.Any(), gomock.Any()).Return(nil)
	intents.EXPECT().MarkFinalized(gomock.Any(), intent.ID, gomock.Any(), gomock.Any()).Return(true, nil)

	f := NewIntentFinalizer(intents, allocator, nil, config.FinalizerConfig{}, newTestLogger())
	require.NoError(t, f.Finalize(context.Background(), intent))
	assert.NotNil(t, intent.FinalizedAt)
}
