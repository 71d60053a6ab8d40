package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuditLog_InitiateDeposit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	subject := uuid.New()
	intentID := uuid.NewString()
	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, entry *domain.AuditLog) {
		assert.Equal(t, domain.AuditActionInitiateDeposit, entry.Action)
		assert.Equal(t, "payment_intent", entry.ResourceType)
		assert.Equal(t, intentID, entry.ResourceID)
		require.NotNil(t, entry.SubjectID)
		assert.Equal(t, subject, *entry.SubjectID)
		assert.Contains(t, entry.Details, `"status":201`)
	})

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/api/v1/deposits", func(c *gin.Context) {
		c.Set(CtxSubjectID, subject)
		c.Set(CtxResourceID, intentID)
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/deposits", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAuditLog_SkipsFailuresAndReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/api/v1/payouts", func(c *gin.Context) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error_code": "RISK_006"})
	})
	r.GET("/api/v1/deposits/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/v1/callbacks/mpesa", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0})
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/v1/payouts", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/deposits/"+uuid.NewString(), nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/callbacks/mpesa", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestMapPathToAction(t *testing.T) {
	tests := []struct {
		route  string
		action domain.AuditAction
	}{
		{"/api/v1/deposits", domain.AuditActionInitiateDeposit},
		{"/api/v1/payouts", domain.AuditActionInitiatePayout},
		{"/api/v1/deposits/confirm", domain.AuditActionConfirmDeposit},
		{"/api/v1/deposits/:id", ""},
		{"/health", ""},
	}
	for _, tt := range tests {
		action, _ := mapPathToAction(tt.route)
		assert.Equal(t, tt.action, action, tt.route)
	}
}
