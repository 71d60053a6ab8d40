package provider

import (
	"encoding/json"
	"strings"

	"mobile-money-gateway/internal/core/domain"
)

type genericCallback struct {
	Status      string         `json:"status"`
	Reason      string         `json:"reason"`
	ProviderRef string         `json:"providerRef"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

var (
	genericSuccess = map[string]bool{"success": true, "succeeded": true, "completed": true, "paid": true}
	genericFailure = map[string]bool{
		"failed": true, "failure": true, "declined": true,
		"canceled": true, "cancelled": true, "error": true,
	}
)

// GenericAdapter parses the gateway's own {status, reason, providerRef} format.
type GenericAdapter struct {
	provider domain.Provider
}

// NewGenericAdapter creates a generic adapter registered under p.
func NewGenericAdapter(p domain.Provider) *GenericAdapter {
	return &GenericAdapter{provider: p}
}

// Provider implements Adapter.
func (a *GenericAdapter) Provider() domain.Provider { return a.provider }

// Parse implements Adapter. A non-empty ref argument overrides the body's providerRef.
func (a *GenericAdapter) Parse(payload []byte, ref string) (*domain.CallbackOutcome, error) {
	var cb genericCallback
	if err := json.Unmarshal(payload, &cb); err != nil {
		return nil, malformed("%s: %v", a.provider, err)
	}

	out := &domain.CallbackOutcome{
		ProviderRef: strings.TrimSpace(ref),
		Reason:      cb.Reason,
		Metadata:    map[string]any{},
	}
	if out.ProviderRef == "" {
		out.ProviderRef = strings.TrimSpace(cb.ProviderRef)
	}
	if out.ProviderRef == "" {
		return nil, malformed("%s: missing provider reference", a.provider)
	}
	for k, v := range cb.Metadata {
		out.Metadata[k] = v
	}

	status := strings.ToLower(strings.TrimSpace(cb.Status))
	switch {
	case genericSuccess[status]:
		out.Success = true
		out.Reason = ""
	case genericFailure[status]:
		if out.Reason == "" {
			out.Reason = status
		}
	default:
		return nil, malformed("%s: unknown status %q", a.provider, cb.Status)
	}
	return out, nil
}
