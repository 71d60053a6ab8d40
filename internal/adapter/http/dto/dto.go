package dto

import (
	"time"

	"mobile-money-gateway/internal/core/domain"

	"github.com/shopspring/decimal"
)

// InitiateIntentRequest is the body of POST /deposits and POST /payouts.
type InitiateIntentRequest struct {
	Provider      string          `json:"provider" binding:"required,provider"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" binding:"required,currency"`
	TargetAccount string          `json:"targetAccount" binding:"omitempty,max=64"`
	Phone         string          `json:"phone" binding:"omitempty,msisdn"`
}

// ConfirmRequest identifies an intent by id or provider reference.
type ConfirmRequest struct {
	ID          string `json:"id" binding:"required_without=ProviderRef,max=64"`
	ProviderRef string `json:"providerRef" binding:"required_without=ID,max=64"`
}

// IntentResponse is the public intent shape.
type IntentResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	TargetAccount string          `json:"targetAccount"`
	Provider      string          `json:"provider"`
	Status        string          `json:"status"`
	ProviderRef   string          `json:"providerRef"`
	Error         *string         `json:"error,omitempty"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

// NewIntentResponse converts a domain intent to its public shape.
func NewIntentResponse(i *domain.PaymentIntent) IntentResponse {
	return IntentResponse{
		ID:            i.ID.String(),
		Type:          string(i.Kind),
		Amount:        i.Amount,
		Currency:      i.Currency,
		TargetAccount: i.TargetAccount,
		Provider:      string(i.Provider),
		Status:        string(i.Status),
		ProviderRef:   i.Ref(),
		Error:         i.Error,
		CreatedAt:     i.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     i.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
