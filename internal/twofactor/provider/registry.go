package provider

import "github.com/aussiebroadwan/twofactor/internal/twofactor/domain"

// Registry holds the configured providers in a fixed presentation order.
type Registry struct {
	providers []Provider
}

func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// List returns the catalog of provider descriptors in registration order.
func (r *Registry) List() []domain.ProviderDescriptor {
	out := make([]domain.ProviderDescriptor, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p.Descriptor())
	}
	return out
}

// Resolve returns the provider with the exact given id, or
// ErrUnknownProvider. Matching is case-sensitive.
func (r *Registry) Resolve(id string) (Provider, error) {
	for _, p := range r.providers {
		if p.Descriptor().ID == id {
			return p, nil
		}
	}
	return nil, ErrUnknownProvider
}
