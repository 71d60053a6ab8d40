// Package provider translates provider-specific callback payloads into a
// canonical domain.CallbackOutcome.
package provider

import (
	"errors"
	"fmt"

	"mobile-money-gateway/internal/core/domain"
)

// ErrMalformedPayload is returned when a callback body cannot be interpreted.
var ErrMalformedPayload = errors.New("malformed provider callback")

// Adapter parses one provider's callback format.
type Adapter interface {
	Provider() domain.Provider
	// Parse decodes payload. ref is an out-of-band provider reference
	// (e.g. a query parameter) and may be empty.
	Parse(payload []byte, ref string) (*domain.CallbackOutcome, error)
}

// Registry resolves adapters by provider name.
type Registry struct {
	adapters map[domain.Provider]Adapter
}

// NewRegistry builds a registry from the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[domain.Provider]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Provider()] = a
	}
	return r
}

// DefaultRegistry wires the built-in adapters. MTN callbacks use the generic format.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewMpesaAdapter(),
		NewAirtelAdapter(),
		NewGenericAdapter(domain.ProviderGeneric),
		NewGenericAdapter(domain.ProviderMTN),
	)
}

// Get returns the adapter for p.
func (r *Registry) Get(p domain.Provider) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, fmt.Errorf("no callback adapter for provider %q", p)
	}
	return a, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}

// Parse implements ports.CallbackParser by dispatching to the provider's adapter.
// Metadata keys the gateway reserves for itself are dropped from the outcome.
func (r *Registry) Parse(p domain.Provider, payload []byte, ref string) (*domain.CallbackOutcome, error) {
	a, err := r.Get(p)
	if err != nil {
		return nil, err
	}
	out, err := a.Parse(payload, ref)
	if err != nil {
		return nil, err
	}
	out.Metadata = domain.CallbackMetadata(out.Metadata)
	return out, nil
}
