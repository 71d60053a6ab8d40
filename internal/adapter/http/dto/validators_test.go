package dto

import (
	"net/http"
	"testing"
	"time"

	"mobile-money-gateway/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsAndEscapes(t *testing.T) {
	req := InitiateIntentRequest{
		Provider:      "  mpesa ",
		Currency:      " KES ",
		TargetAccount: " wallet<script> ",
		Phone:         " 254700000001 ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "mpesa", req.Provider)
	assert.Equal(t, "KES", req.Currency)
	assert.Equal(t, "wallet&lt;script&gt;", req.TargetAccount)
	assert.Equal(t, "254700000001", req.Phone)
}

func TestSanitizeStruct_PointerFields(t *testing.T) {
	note := "  <b>bold</b>  "
	v := struct {
		Note  *string
		Empty *string
	}{Note: &note}
	SanitizeStruct(&v)

	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", *v.Note)
	assert.Nil(t, v.Empty)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestValidIdempotencyKey(t *testing.T) {
	for _, k := range []string{"ref-001", "REF_002", "a.b.c", "ABC-def_GHI.123"} {
		assert.True(t, ValidIdempotencyKey(k), "expected valid: %s", k)
	}
	for _, k := range []string{"", "ref 001", "ref<001>", "ref;DROP", "ref\n001", string(make([]byte, 129))} {
		assert.False(t, ValidIdempotencyKey(k), "expected invalid: %q", k)
	}
}

func validInitiate() InitiateIntentRequest {
	return InitiateIntentRequest{
		Provider: "mpesa",
		Amount:   decimal.NewFromInt(100),
		Currency: "KES",
		Phone:    "+254 700-000001",
	}
}

func TestInitiateIntentRequest_Binding(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *InitiateIntentRequest)
		code   string
	}{
		{"valid", func(r *InitiateIntentRequest) {}, ""},
		{"provider case-insensitive", func(r *InitiateIntentRequest) { r.Provider = "Airtel" }, ""},
		{"unknown provider", func(r *InitiateIntentRequest) { r.Provider = "paypal" }, "PAY_001"},
		{"missing provider", func(r *InitiateIntentRequest) { r.Provider = "" }, "PAY_001"},
		{"numeric currency", func(r *InitiateIntentRequest) { r.Currency = "123" }, "PAY_009"},
		{"long currency", func(r *InitiateIntentRequest) { r.Currency = "KESH" }, "PAY_009"},
		{"bad phone", func(r *InitiateIntentRequest) { r.Phone = "call me" }, "PAY_002"},
		{"short phone", func(r *InitiateIntentRequest) { r.Phone = "12345" }, "PAY_002"},
		{"no phone", func(r *InitiateIntentRequest) { r.Phone = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validInitiate()
			tt.mutate(&req)

			err := binding.Validator.ValidateStruct(&req)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			appErr := BindError(err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
		})
	}
}

func TestConfirmRequest_Binding(t *testing.T) {
	assert.NoError(t, binding.Validator.ValidateStruct(&ConfirmRequest{ID: uuid.NewString()}))
	assert.NoError(t, binding.Validator.ValidateStruct(&ConfirmRequest{ProviderRef: "MPESA-ABC"}))
	assert.Error(t, binding.Validator.ValidateStruct(&ConfirmRequest{}))
}

func TestBindError_NonValidation(t *testing.T) {
	appErr := BindError(assert.AnError)
	assert.Equal(t, "PAY_002", appErr.Code)
}

func TestNewIntentResponse(t *testing.T) {
	i := domain.NewPaymentIntent(uuid.New(), domain.IntentKindDeposit, domain.ProviderAirtel,
		decimal.RequireFromString("99.95"), "ugx", domain.TargetWallet, "256700000001")
	ref := domain.BuildProviderRef(domain.ProviderAirtel, i.ID)
	i.ProviderRef = &ref
	i.Status = domain.IntentStatusAwaitingUser
	i.CreatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	i.UpdatedAt = i.CreatedAt.Add(time.Minute)

	resp := NewIntentResponse(i)
	assert.Equal(t, i.ID.String(), resp.ID)
	assert.Equal(t, "deposit", resp.Type)
	assert.Equal(t, "99.95", resp.Amount.String())
	assert.Equal(t, "UGX", resp.Currency)
	assert.Equal(t, "wallet", resp.TargetAccount)
	assert.Equal(t, "airtel", resp.Provider)
	assert.Equal(t, "awaiting_user", resp.Status)
	assert.Equal(t, ref, resp.ProviderRef)
	assert.Equal(t, "2025-03-01T10:00:00Z", resp.CreatedAt)
	assert.Equal(t, "2025-03-01T10:01:00Z", resp.UpdatedAt)
	assert.Nil(t, resp.Error)
}
