package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mobile-money-gateway/internal/adapter/http/middleware"
	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/internal/core/ports"
	"mobile-money-gateway/internal/core/ports/mocks"
	"mobile-money-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJSONContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Intent Handler Tests ---

func TestInitiateDeposit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockIntentService(ctrl)
	h := NewIntentHandler(mockSvc)

	subjectID := uuid.New()
	intent := domain.NewPaymentIntent(subjectID, domain.IntentKindDeposit, domain.ProviderMpesa,
		decimal.NewFromInt(150), "KES", "", "254700000001")
	require.NoError(t, intent.AssignProviderRef("ws_CO_1"))

	mockSvc.EXPECT().Initiate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.InitiateRequest) (*domain.PaymentIntent, error) {
			assert.True(t, req.Amount.Equal(decimal.NewFromInt(150)))
			require.NotNil(t, req.Signals)
			assert.Equal(t, "192.0.2.1", req.Signals.ClientIP)
			assert.Equal(t, "KE", req.Signals.OriginCountry)
			req.Amount = decimal.Zero
			req.Signals = nil
			assert.Equal(t, ports.InitiateRequest{
				SubjectID:      subjectID,
				Kind:           domain.IntentKindDeposit,
				Provider:       "mpesa",
				Amount:         decimal.Zero,
				Currency:       "KES",
				Phone:          "254700000001",
				IdempotencyKey: "dep-001",
			}, req)
			return intent, nil
		})

	c, w := newJSONContext(http.MethodPost, "/api/v1/deposits",
		`{"provider":"mpesa","amount":150,"currency":"KES","phone":"254700000001"}`)
	c.Request.RemoteAddr = "192.0.2.1:4000"
	c.Request.Header.Set(HeaderIdempotencyKey, "dep-001")
	c.Request.Header.Set(middleware.HeaderCFCountry, "KE")
	c.Set(middleware.CtxSubjectID, subjectID)

	h.InitiateDeposit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, intent.ID.String(), data["id"])
	assert.Equal(t, "deposit", data["type"])
	assert.Equal(t, "awaiting_user", data["status"])
	assert.Equal(t, "ws_CO_1", data["providerRef"])
	assert.Equal(t, "150", data["amount"])

	rid, ok := c.Get(middleware.CtxResourceID)
	require.True(t, ok)
	assert.Equal(t, intent.ID.String(), rid)
}

func TestInitiatePayout_UsesPayoutKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockIntentService(ctrl)
	h := NewIntentHandler(mockSvc)

	subjectID := uuid.New()
	intent := domain.NewPaymentIntent(subjectID, domain.IntentKindPayout, domain.ProviderGeneric,
		decimal.NewFromInt(20), "USD", "", "")

	mockSvc.EXPECT().Initiate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.InitiateRequest) (*domain.PaymentIntent, error) {
			assert.Equal(t, domain.IntentKindPayout, req.Kind)
			return intent, nil
		})

	c, w := newJSONContext(http.MethodPost, "/api/v1/payouts", `{"provider":"generic","amount":"20","currency":"USD"}`)
	c.Set(middleware.CtxSubjectID, subjectID)

	h.InitiatePayout(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestInitiateDeposit_BindingErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"unknown provider", `{"provider":"paypal","amount":10,"currency":"KES"}`, "PAY_001"},
		{"missing provider", `{"amount":10,"currency":"KES"}`, "PAY_001"},
		{"bad currency", `{"provider":"mpesa","amount":10,"currency":"KE"}`, "PAY_009"},
		{"bad phone", `{"provider":"mpesa","amount":10,"currency":"KES","phone":"abc"}`, "PAY_002"},
		{"malformed json", `{"provider":`, "PAY_002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			h := NewIntentHandler(mocks.NewMockIntentService(ctrl))

			c, w := newJSONContext(http.MethodPost, "/api/v1/deposits", tt.body)
			c.Set(middleware.CtxSubjectID, uuid.New())

			h.InitiateDeposit(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decodeBody(t, w)["error_code"])
		})
	}
}

func TestInitiateDeposit_InvalidIdempotencyKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewIntentHandler(mocks.NewMockIntentService(ctrl))

	c, w := newJSONContext(http.MethodPost, "/api/v1/deposits", `{"provider":"mpesa","amount":10,"currency":"KES"}`)
	c.Request.Header.Set(HeaderIdempotencyKey, "has spaces!")
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.InitiateDeposit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PAY_002", decodeBody(t, w)["error_code"])
}

func TestInitiateDeposit_MissingSubject(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewIntentHandler(mocks.NewMockIntentService(ctrl))

	c, w := newJSONContext(http.MethodPost, "/api/v1/deposits", `{}`)

	h.InitiateDeposit(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInitiateDeposit_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockIntentService(ctrl)
	h := NewIntentHandler(mockSvc)

	mockSvc.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrDuplicateProviderRef())

	c, w := newJSONContext(http.MethodPost, "/api/v1/deposits", `{"provider":"airtel","amount":10,"currency":"UGX","phone":"256700000000"}`)
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.InitiateDeposit(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PAY_003", decodeBody(t, w)["error_code"])
	_, ok := c.Get(middleware.CtxResourceID)
	assert.False(t, ok)
}

func TestGetDeposit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockIntentService(ctrl)
	h := NewIntentHandler(mockSvc)

	subjectID := uuid.New()
	intent := domain.NewPaymentIntent(subjectID, domain.IntentKindDeposit, domain.ProviderMTN,
		decimal.RequireFromString("12.50"), "GHS", "", "233200000000")

	mockSvc.EXPECT().Get(gomock.Any(), subjectID, intent.ID).Return(intent, nil)

	c, w := newJSONContext(http.MethodGet, "/api/v1/deposits/"+intent.ID.String(), "")
	c.Params = gin.Params{{Key: "id", Value: intent.ID.String()}}
	c.Set(middleware.CtxSubjectID, subjectID)

	h.GetDeposit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "12.5", data["amount"])
	assert.Equal(t, "created", data["status"])
}

func TestGetDeposit_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewIntentHandler(mocks.NewMockIntentService(ctrl))

	c, w := newJSONContext(http.MethodGet, "/api/v1/deposits/nope", "")
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	c.Set(middleware.CtxSubjectID, uuid.New())

	h.GetDeposit(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PAY_004", decodeBody(t, w)["error_code"])
}

func TestConfirmDeposit(t *testing.T) {
	intent := domain.NewPaymentIntent(uuid.New(), domain.IntentKindDeposit, domain.ProviderGeneric,
		decimal.NewFromInt(5), "USD", "", "")

	tests := []struct {
		name    string
		body    string
		wantArg string
	}{
		{"by id", `{"id":"` + intent.ID.String() + `"}`, intent.ID.String()},
		{"by provider ref", `{"providerRef":"gen-42"}`, "gen-42"},
		{"id wins over ref", `{"id":"` + intent.ID.String() + `","providerRef":"gen-42"}`, intent.ID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockSvc := mocks.NewMockIntentService(ctrl)
			h := NewIntentHandler(mockSvc)

			mockSvc.EXPECT().Confirm(gomock.Any(), tt.wantArg).Return(intent, nil)

			c, w := newJSONContext(http.MethodPost, "/api/v1/deposits/confirm", tt.body)
			h.ConfirmDeposit(c)

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestConfirmDeposit_RequiresIdentifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewIntentHandler(mocks.NewMockIntentService(ctrl))

	c, w := newJSONContext(http.MethodPost, "/api/v1/deposits/confirm", `{}`)
	h.ConfirmDeposit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmDeposit_NotConfirmable(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockIntentService(ctrl)
	h := NewIntentHandler(mockSvc)

	mockSvc.EXPECT().Confirm(gomock.Any(), "gen-1").Return(nil, apperror.ErrIntentNotConfirmable("failed"))

	c, w := newJSONContext(http.MethodPost, "/api/v1/deposits/confirm", `{"providerRef":"gen-1"}`)
	h.ConfirmDeposit(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PAY_006", decodeBody(t, w)["error_code"])
}

// --- Callback Handler Tests ---

func TestMpesaCallback_AlwaysAccepted(t *testing.T) {
	payload := `{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_9","ResultCode":0}}}`

	for _, svcErr := range []error{nil, errors.New("db down")} {
		ctrl := gomock.NewController(t)
		mockSvc := mocks.NewMockIntentService(ctrl)
		h := NewCallbackHandler(mockSvc, nil, "", zerolog.Nop())

		mockSvc.EXPECT().HandleProviderCallback(gomock.Any(), domain.ProviderMpesa, []byte(payload), "").Return(svcErr)

		c, w := newJSONContext(http.MethodPost, "/api/v1/callbacks/mpesa", payload)
		h.Mpesa(c)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody(t, w)
		assert.Equal(t, float64(0), resp["ResultCode"])
		assert.Equal(t, "Accepted", resp["ResultDesc"])
	}
}

func TestAirtelCallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockIntentService(ctrl)
	h := NewCallbackHandler(mockSvc, nil, "", zerolog.Nop())

	payload := `{"transaction":{"id":"AT-1","status_code":"TS"}}`
	mockSvc.EXPECT().HandleProviderCallback(gomock.Any(), domain.ProviderAirtel, []byte(payload), "").Return(nil)

	c, w := newJSONContext(http.MethodPost, "/api/v1/callbacks/airtel", payload)
	h.Airtel(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenericCallback_PassesRef(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockIntentService(ctrl)
	h := NewCallbackHandler(mockSvc, nil, "", zerolog.Nop())

	payload := `{"status":"success"}`
	mockSvc.EXPECT().HandleProviderCallback(gomock.Any(), domain.ProviderGeneric, []byte(payload), "gen-7").Return(nil)

	c, w := newJSONContext(http.MethodPost, "/api/v1/callbacks/generic?ref=gen-7", payload)
	h.Generic(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenericCallback_Signature(t *testing.T) {
	payload := `{"status":"success"}`

	t.Run("valid signature is processed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockSvc := mocks.NewMockIntentService(ctrl)
		mockSig := mocks.NewMockSignatureService(ctrl)
		h := NewCallbackHandler(mockSvc, mockSig, "whsec", zerolog.Nop())

		mockSig.EXPECT().Verify("whsec", payload, "abc123").Return(true)
		mockSvc.EXPECT().HandleProviderCallback(gomock.Any(), domain.ProviderGeneric, []byte(payload), "gen-8").Return(nil)

		c, w := newJSONContext(http.MethodPost, "/api/v1/callbacks/generic?ref=gen-8", payload)
		c.Request.Header.Set(HeaderSignature, "abc123")
		h.Generic(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("mismatch is acknowledged without processing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockSvc := mocks.NewMockIntentService(ctrl)
		mockSig := mocks.NewMockSignatureService(ctrl)
		h := NewCallbackHandler(mockSvc, mockSig, "whsec", zerolog.Nop())

		mockSig.EXPECT().Verify("whsec", payload, "").Return(false)

		c, w := newJSONContext(http.MethodPost, "/api/v1/callbacks/generic?ref=gen-8", payload)
		h.Generic(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// --- Health Check Tests ---

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	ctrl := gomock.NewController(t)
	pg := mocks.NewMockHealthChecker(ctrl)
	rdb := mocks.NewMockHealthChecker(ctrl)

	pg.EXPECT().Ping(gomock.Any()).Return(nil)
	pg.EXPECT().Name().Return("postgres").AnyTimes()
	rdb.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
	rdb.EXPECT().Name().Return("redis").AnyTimes()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(pg, rdb)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Equal(t, "healthy", deps["postgres"].(map[string]interface{})["status"])
	assert.Equal(t, "connection refused", deps["redis"].(map[string]interface{})["error"])
}

// --- Router Tests ---

func TestSetupRouter_RoutesAndAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSvc := mocks.NewMockIntentService(ctrl)
	mockToken := mocks.NewMockTokenService(ctrl)

	r := SetupRouter(RouterDeps{
		IntentSvc: mockSvc,
		TokenSvc:  mockToken,
		Logger:    zerolog.Nop(),
	})

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("deposit without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/deposits", bytes.NewReader([]byte(`{}`))))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("confirm requires admin", func(t *testing.T) {
		mockToken.EXPECT().Validate("user-token").Return(&ports.TokenClaims{SubjectID: uuid.New(), Role: "user"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/deposits/confirm", bytes.NewReader([]byte(`{"id":"x"}`)))
		req.Header.Set("Authorization", "Bearer user-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("callback needs no token", func(t *testing.T) {
		mockSvc.EXPECT().HandleProviderCallback(gomock.Any(), domain.ProviderAirtel, gomock.Any(), "").Return(nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/callbacks/airtel", bytes.NewReader([]byte(`{}`))))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
