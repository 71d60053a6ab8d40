package provider

import (
	"encoding/json"
	"strings"

	"mobile-money-gateway/internal/core/domain"
)

type airtelCallback struct {
	Transaction struct {
		ID            string `json:"id"`
		Message       string `json:"message"`
		StatusCode    string `json:"status_code"`
		AirtelMoneyID string `json:"airtel_money_id"`
	} `json:"transaction"`
}

// AirtelAdapter parses Airtel Money collection callbacks.
type AirtelAdapter struct{}

// NewAirtelAdapter creates an Airtel Money adapter.
func NewAirtelAdapter() *AirtelAdapter { return &AirtelAdapter{} }

// Provider implements Adapter.
func (a *AirtelAdapter) Provider() domain.Provider { return domain.ProviderAirtel }

// Parse implements Adapter. status_code TS is success; anything else is a failure.
func (a *AirtelAdapter) Parse(payload []byte, ref string) (*domain.CallbackOutcome, error) {
	var cb airtelCallback
	if err := json.Unmarshal(payload, &cb); err != nil {
		return nil, malformed("airtel: %v", err)
	}
	tx := cb.Transaction

	out := &domain.CallbackOutcome{
		ProviderRef: tx.ID,
		Metadata:    map[string]any{},
	}
	if out.ProviderRef == "" {
		out.ProviderRef = ref
	}
	if out.ProviderRef == "" {
		return nil, malformed("airtel: missing transaction.id")
	}
	if tx.StatusCode == "" {
		return nil, malformed("airtel: missing status_code")
	}

	out.Metadata["statusCode"] = tx.StatusCode
	if tx.AirtelMoneyID != "" {
		out.Metadata["airtelMoneyId"] = tx.AirtelMoneyID
	}

	if strings.EqualFold(tx.StatusCode, "TS") {
		out.Success = true
		return out, nil
	}
	out.Reason = tx.Message
	if out.Reason == "" {
		out.Reason = "airtel status " + tx.StatusCode
	}
	return out, nil
}
