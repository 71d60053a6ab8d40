package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mobile-money-gateway/config"
	"mobile-money-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAllocation() ports.Allocation {
	target := uuid.New()
	return ports.Allocation{
		IntentID:    uuid.New(),
		SubjectID:   uuid.New(),
		Amount:      decimal.RequireFromString("150.5"),
		Currency:    "KES",
		Description: "Deposit via mpesa",
		Kind:        ports.AllocationDirect,
		TargetID:    &target,
	}
}

func TestClient_Allocate_Success(t *testing.T) {
	alloc := newAllocation()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, allocationsPath, r.URL.Path)
		assert.Equal(t, alloc.IntentID.String(), r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "Bearer k1", r.Header.Get("Authorization"))

		var body allocationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "150.5000", body.Amount)
		assert.Equal(t, "direct_credit", body.Kind)
		require.NotNil(t, body.TargetID)
		assert.Equal(t, alloc.TargetID.String(), *body.TargetID)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(config.LedgerConfig{BaseURL: srv.URL + "/", APIKey: "k1", Timeout: time.Second}, zerolog.Nop())
	assert.NoError(t, c.Allocate(context.Background(), alloc))
}

func TestClient_Allocate_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(config.LedgerConfig{BaseURL: srv.URL, Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, c.Allocate(context.Background(), newAllocation()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Allocate_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"unknown account"}`))
	}))
	defer srv.Close()

	c := NewClient(config.LedgerConfig{BaseURL: srv.URL, Timeout: time.Second}, zerolog.Nop())
	err := c.Allocate(context.Background(), newAllocation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLogAllocator(t *testing.T) {
	a := NewLogAllocator(zerolog.Nop())
	assert.NoError(t, a.Allocate(context.Background(), newAllocation()))
}
