package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"mobile-money-gateway/internal/core/domain"
	"mobile-money-gateway/internal/core/ports"
	"mobile-money-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	HeaderSignature = "X-Signature"

	callbackTimeout = 15 * time.Second
)

// CallbackHandler receives provider callbacks. Every callback is acknowledged
// with 200 so providers stop redelivering; failures are only logged.
type CallbackHandler struct {
	intentSvc     ports.IntentService
	sigSvc        ports.SignatureService
	webhookSecret string
	log           zerolog.Logger
}

// NewCallbackHandler creates a new CallbackHandler. An empty webhookSecret
// disables signature checks on the generic endpoint.
func NewCallbackHandler(intentSvc ports.IntentService, sigSvc ports.SignatureService, webhookSecret string, log zerolog.Logger) *CallbackHandler {
	return &CallbackHandler{
		intentSvc:     intentSvc,
		sigSvc:        sigSvc,
		webhookSecret: webhookSecret,
		log:           logger.Component(log, "callbacks"),
	}
}

// Mpesa handles POST /api/v1/callbacks/mpesa.
func (h *CallbackHandler) Mpesa(c *gin.Context) {
	if payload, ok := h.readBody(c, domain.ProviderMpesa); ok {
		h.process(c, domain.ProviderMpesa, payload, "")
	}
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}

// Airtel handles POST /api/v1/callbacks/airtel.
func (h *CallbackHandler) Airtel(c *gin.Context) {
	if payload, ok := h.readBody(c, domain.ProviderAirtel); ok {
		h.process(c, domain.ProviderAirtel, payload, "")
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

// Generic handles POST /api/v1/callbacks/generic?ref=...
func (h *CallbackHandler) Generic(c *gin.Context) {
	payload, ok := h.readBody(c, domain.ProviderGeneric)
	if ok && h.webhookSecret != "" {
		sig := c.GetHeader(HeaderSignature)
		if !h.sigSvc.Verify(h.webhookSecret, string(payload), sig) {
			h.log.Warn().
				Str("provider", string(domain.ProviderGeneric)).
				Str("client_ip", c.ClientIP()).
				Bool("signature_present", sig != "").
				Msg("Callback signature mismatch, ignored")
			ok = false
		}
	}
	if ok {
		h.process(c, domain.ProviderGeneric, payload, c.Query("ref"))
	}
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

func (h *CallbackHandler) readBody(c *gin.Context, provider domain.Provider) ([]byte, bool) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Warn().Err(err).Str("provider", string(provider)).Msg("Unreadable callback body")
		return nil, false
	}
	return payload, true
}

// process runs detached from the provider's connection so a dropped
// request does not abort a half-applied callback.
func (h *CallbackHandler) process(c *gin.Context, provider domain.Provider, payload []byte, ref string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), callbackTimeout)
	defer cancel()

	if err := h.intentSvc.HandleProviderCallback(ctx, provider, payload, ref); err != nil {
		h.log.Error().Err(err).
			Str("provider", string(provider)).
			Str("ref", ref).
			Msg("Callback processing failed, acknowledged anyway")
	}
}
