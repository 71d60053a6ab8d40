package provider

import (
	"encoding/json"
	"strconv"

	"mobile-money-gateway/internal/core/domain"
)

// stkCallback is the Daraja STK push result body.
type stkCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string           `json:"MerchantRequestID"`
			CheckoutRequestID string           `json:"CheckoutRequestID"`
			ResultCode        json.Number      `json:"ResultCode"`
			ResultDesc        string           `json:"ResultDesc"`
			CallbackMetadata  *stkCallbackMeta `json:"CallbackMetadata,omitempty"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type stkCallbackMeta struct {
	Item []struct {
		Name  string          `json:"Name"`
		Value json.RawMessage `json:"Value,omitempty"`
	} `json:"Item"`
}

// Metadata keys recorded from an M-Pesa callback.
var mpesaItems = map[string]string{
	"MpesaReceiptNumber": "mpesaReceiptNumber",
	"Amount":             "amount",
	"PhoneNumber":        "phoneNumber",
	"TransactionDate":    "transactionDate",
}

// MpesaAdapter parses Daraja STK push callbacks.
type MpesaAdapter struct{}

// NewMpesaAdapter creates an M-Pesa adapter.
func NewMpesaAdapter() *MpesaAdapter { return &MpesaAdapter{} }

// Provider implements Adapter.
func (a *MpesaAdapter) Provider() domain.Provider { return domain.ProviderMpesa }

// Parse implements Adapter. CheckoutRequestID is the provider reference and
// ResultCode 0 means the user approved the prompt.
func (a *MpesaAdapter) Parse(payload []byte, ref string) (*domain.CallbackOutcome, error) {
	var cb stkCallback
	if err := json.Unmarshal(payload, &cb); err != nil {
		return nil, malformed("mpesa: %v", err)
	}
	stk := cb.Body.StkCallback

	out := &domain.CallbackOutcome{
		ProviderRef: stk.CheckoutRequestID,
		Metadata:    map[string]any{},
	}
	if out.ProviderRef == "" {
		out.ProviderRef = ref
	}
	if out.ProviderRef == "" {
		return nil, malformed("mpesa: missing CheckoutRequestID")
	}
	if stk.ResultCode == "" {
		return nil, malformed("mpesa: missing ResultCode")
	}
	code, err := strconv.Atoi(stk.ResultCode.String())
	if err != nil {
		return nil, malformed("mpesa: ResultCode %q", stk.ResultCode)
	}

	if stk.MerchantRequestID != "" {
		out.Metadata["merchantRequestId"] = stk.MerchantRequestID
	}
	out.Metadata["resultCode"] = code

	if code != 0 {
		out.Reason = stk.ResultDesc
		return out, nil
	}
	out.Success = true

	if stk.CallbackMetadata != nil {
		for _, item := range stk.CallbackMetadata.Item {
			key, ok := mpesaItems[item.Name]
			if !ok || len(item.Value) == 0 {
				continue
			}
			var v any
			if err := json.Unmarshal(item.Value, &v); err == nil {
				out.Metadata[key] = v
			}
		}
	}
	return out, nil
}
