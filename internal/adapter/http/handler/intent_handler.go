package handler

import (
	"strings"

	"mobile-money-gateway/internal/adapter/http/dto"
	"mobile-money-gateway/internal/adapter/http/middleware"
	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/internal/core/ports"
	"mobile-money-gateway/pkg/apperror"
	"mobile-money-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderIdempotencyKey = "Idempotency-Key"

// IntentHandler handles deposit and payout intent endpoints.
type IntentHandler struct {
	intentSvc ports.IntentService
}

// NewIntentHandler creates a new IntentHandler.
func NewIntentHandler(intentSvc ports.IntentService) *IntentHandler {
	return &IntentHandler{intentSvc: intentSvc}
}

// InitiateDeposit handles POST /api/v1/deposits.
// Deposits are gated as income and payouts as outgoing; the route decides.
func (h *IntentHandler) InitiateDeposit(c *gin.Context) {
	h.initiate(c, domain.IntentKindDeposit)
}

// InitiatePayout handles POST /api/v1/payouts.
func (h *IntentHandler) InitiatePayout(c *gin.Context) {
	h.initiate(c, domain.IntentKindPayout)
}

func (h *IntentHandler) initiate(c *gin.Context, kind domain.IntentKind) {
	subjectID, ok := middleware.SubjectID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	idempKey := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
	if idempKey != "" && !dto.ValidIdempotencyKey(idempKey) {
		response.Error(c, apperror.Validation("invalid Idempotency-Key header"))
		return
	}

	var req dto.InitiateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	dto.SanitizeStruct(&req)

	intent, err := h.intentSvc.Initiate(c.Request.Context(), ports.InitiateRequest{
		SubjectID:      subjectID,
		Kind:           kind,
		Provider:       req.Provider,
		Amount:         req.Amount,
		Currency:       req.Currency,
		TargetAccount:  req.TargetAccount,
		Phone:          req.Phone,
		Signals:        middleware.GateSignals(c),
		IdempotencyKey: idempKey,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, intent.ID.String())
	response.Created(c, dto.NewIntentResponse(intent))
}

// GetDeposit handles GET /api/v1/deposits/:id.
func (h *IntentHandler) GetDeposit(c *gin.Context) {
	subjectID, ok := middleware.SubjectID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrNotFound("intent"))
		return
	}

	intent, err := h.intentSvc.Get(c.Request.Context(), subjectID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewIntentResponse(intent))
}

// ConfirmDeposit handles POST /api/v1/deposits/confirm.
func (h *IntentHandler) ConfirmDeposit(c *gin.Context) {
	var req dto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	idOrRef := strings.TrimSpace(req.ID)
	if idOrRef == "" {
		idOrRef = strings.TrimSpace(req.ProviderRef)
	}

	intent, err := h.intentSvc.Confirm(c.Request.Context(), idOrRef)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, intent.ID.String())
	response.OK(c, dto.NewIntentResponse(intent))
}
